package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Topic is a named, ordered collection of questions.
type Topic struct {
	Name      string
	Questions []Question
}

// Bank maps topic names to their questions, keeping topics in insertion order.
// A Bank is never modified in place: every With*/Without* method returns a new value
// and leaves the receiver untouched.
type Bank struct {
	topics []Topic
	index  map[string]int
}

// NewBank returns an empty bank.
func NewBank() *Bank {
	return &Bank{index: make(map[string]int)}
}

// Len returns the number of topics.
func (b *Bank) Len() int {
	return len(b.topics)
}

// Has reports whether the topic exists.
func (b *Bank) Has(name string) bool {
	_, ok := b.index[name]
	return ok
}

// Names returns topic names in insertion order.
func (b *Bank) Names() []string {
	names := make([]string, 0, len(b.topics))
	for _, t := range b.topics {
		names = append(names, t.Name)
	}
	return names
}

// Questions returns a copy of the topic's questions.
func (b *Bank) Questions(name string) ([]Question, bool) {
	i, ok := b.index[name]
	if !ok {
		return nil, false
	}
	return append([]Question(nil), b.topics[i].Questions...), true
}

// Topics returns a copy of all topics in insertion order.
func (b *Bank) Topics() []Topic {
	out := make([]Topic, 0, len(b.topics))
	for _, t := range b.topics {
		out = append(out, Topic{
			Name:      t.Name,
			Questions: append([]Question(nil), t.Questions...),
		})
	}
	return out
}

// WithTopic returns a bank with an empty topic appended.
// The receiver is returned as is when the topic already exists.
func (b *Bank) WithTopic(name string) *Bank {
	if b.Has(name) {
		return b
	}
	nb := b.clone()
	nb.index[name] = len(nb.topics)
	nb.topics = append(nb.topics, Topic{Name: name})
	return nb
}

// WithoutTopic returns a bank without the topic.
func (b *Bank) WithoutTopic(name string) *Bank {
	i, ok := b.index[name]
	if !ok {
		return b
	}
	nb := NewBank()
	for j, t := range b.topics {
		if j == i {
			continue
		}
		nb.index[t.Name] = len(nb.topics)
		nb.topics = append(nb.topics, t)
	}
	return nb
}

// WithQuestion returns a bank with q appended to the topic.
func (b *Bank) WithQuestion(name string, q Question) (*Bank, bool) {
	i, ok := b.index[name]
	if !ok {
		return b, false
	}
	nb := b.clone()
	qs := make([]Question, 0, len(b.topics[i].Questions)+1)
	qs = append(qs, b.topics[i].Questions...)
	nb.topics[i].Questions = append(qs, q)
	return nb, true
}

// WithoutQuestion returns a bank with the question at idx removed from the topic.
func (b *Bank) WithoutQuestion(name string, idx int) (*Bank, bool) {
	i, ok := b.index[name]
	if !ok {
		return b, false
	}
	old := b.topics[i].Questions
	if idx < 0 || idx >= len(old) {
		return b, false
	}
	nb := b.clone()
	qs := make([]Question, 0, len(old)-1)
	qs = append(qs, old[:idx]...)
	nb.topics[i].Questions = append(qs, old[idx+1:]...)
	return nb, true
}

// clone copies the topic list and index. Question slices are shared and
// must be replaced, not appended to, by the caller.
func (b *Bank) clone() *Bank {
	nb := &Bank{
		topics: append([]Topic(nil), b.topics...),
		index:  make(map[string]int, len(b.index)+1),
	}
	for k, v := range b.index {
		nb.index[k] = v
	}
	return nb
}

// MarshalJSON encodes the bank as a JSON object keyed by topic name, in insertion order.
func (b *Bank) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range b.topics {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Name)
		if err != nil {
			return nil, err
		}
		qs := t.Questions
		if qs == nil {
			qs = []Question{}
		}
		val, err := json.Marshal(qs)
		if err != nil {
			return nil, fmt.Errorf("encode topic %q: %w", t.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keyed by topic name, keeping key order.
// A null topic value decodes as an empty topic.
func (b *Bank) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("bank: expected object, got %v", tok)
	}

	nb := NewBank()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("bank: expected topic name, got %v", tok)
		}

		var qs []Question
		if err := dec.Decode(&qs); err != nil {
			return fmt.Errorf("bank: decode topic %q: %w", name, err)
		}

		if i, dup := nb.index[name]; dup {
			nb.topics[i].Questions = qs
			continue
		}
		nb.index[name] = len(nb.topics)
		nb.topics = append(nb.topics, Topic{Name: name, Questions: qs})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*b = *nb
	return nil
}
