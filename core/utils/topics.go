package utils

import (
	"fmt"
	"io"

	"github.com/godist/pelican/core/gibbs"
)

type TopicDesc struct {
	Id     int
	Nt     int64
	Tokens []TokenDesc
}

type TokenDesc struct {
	Word  string
	Count int64
}

// DescribeTopics summarizes each topic as its heaviest words with
// assignment counts, in descending order.
func DescribeTopics(m *gibbs.Model, v *gibbs.Vocabulary,
	maxWordsPerTopic int) []*TopicDesc {

	descs := make([]*TopicDesc, m.NumTopics())
	for topic := range descs {
		desc := &TopicDesc{
			Id:     topic,
			Nt:     m.Nz[topic],
			Tokens: make([]TokenDesc, 0, maxWordsPerTopic),
		}
		m.TopWords(topic, maxWordsPerTopic).ForEach(
			func(word int, count int64) error {
				desc.Tokens = append(desc.Tokens,
					TokenDesc{Word: v.Token(int32(word)), Count: count})
				return nil
			})
		descs[topic] = desc
	}
	return descs
}

// PrintTopics writes one line per topic: its id, total count, and top
// words with counts.
func PrintTopics(w io.Writer, descs []*TopicDesc) {
	for _, d := range descs {
		fmt.Fprintf(w, "Topic %05d Nt %05d:", d.Id, d.Nt)
		for _, t := range d.Tokens {
			fmt.Fprintf(w, " %s (%d)", t.Word, t.Count)
		}
		fmt.Fprintln(w)
	}
}
