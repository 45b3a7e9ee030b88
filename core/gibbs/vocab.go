package gibbs

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Vocabulary maintains the bi-directional mapping between tokens and
// the column indices of the document-term matrix.  The id of a token
// is its line number in the vocabulary file, so the mapping is fixed
// by the corpus preparation and never rearranged here.  The core math
// never consults it; it exists for reporting, such as printing the
// top words of a topic.
type Vocabulary struct {
	Tokens []string
	ids    map[string]int
}

func NewVocabulary() *Vocabulary {
	return &Vocabulary{Tokens: make([]string, 0)}
}

func (v *Vocabulary) Load(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		fs := strings.Fields(scanner.Text())
		if len(fs) == 0 {
			continue
		}
		v.Tokens = append(v.Tokens, fs[0]) // Take only the first column.
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	v.buildIdMap()
	return nil
}

func (v *Vocabulary) buildIdMap() {
	v.ids = make(map[string]int)
	for i := range v.Tokens {
		v.ids[v.Tokens[i]] = i
	}
}

func (v *Vocabulary) Len() int {
	return len(v.Tokens)
}

func (v *Vocabulary) Token(id int32) string {
	if int(id) < 0 || int(id) >= len(v.Tokens) {
		panic(fmt.Sprintf("id=%d out of range [0, %d)", id, len(v.Tokens)))
	}
	return v.Tokens[id]
}

// Id returns the column index of token, or a negative value if token
// is not in the vocabulary.
func (v *Vocabulary) Id(token string) int32 {
	if v.ids == nil {
		v.buildIdMap()
	}
	if id, ok := v.ids[token]; ok {
		return int32(id)
	}
	return -1
}
