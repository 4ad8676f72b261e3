// Package catalog holds the static questionnaire content: the ordered topic
// registry and the two question banks that score it.
package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Topic is a scored category of the questionnaire. ID is the topic's ordinal
// position and is the join key between topics, scores and stage-one questions.
type Topic struct {
	ID   int
	Key  string
	Name string
}

// Choice is one option of an answer scale.
type Choice struct {
	Label  string
	Weight int
}

// Unbound is the TopicID of stage-two questions. They score whichever topic
// was narrowed into their position.
const Unbound = -1

// TopicPlaceholder in a prompt is replaced with the bound topic's name.
const TopicPlaceholder = "{topic}"

// Question is a single prompt with its answer scale. Stage-one questions
// carry the topic they score.
type Question struct {
	TopicID int
	Prompt  string
	Scale   []Choice
}

// Bind renders the prompt for topic t.
func (q Question) Bind(t Topic) string {
	return strings.ReplaceAll(q.Prompt, TopicPlaceholder, t.Name)
}

// HasWeight reports whether w is one of the question's scale weights.
func (q Question) HasWeight(w int) bool {
	return slices.ContainsFunc(q.Scale, func(c Choice) bool { return c.Weight == w })
}

// Catalog is the immutable topic registry plus both question banks.
// Stage-one questions are in topic order. Stage-two questions are positional:
// second[i] is asked about the i-th narrowed candidate, whatever topic that is.
type Catalog struct {
	topics []Topic
	first  []Question
	second []Question
	byKey  map[string]int
}

// New validates and assembles a catalog. first[i] must score topics[i];
// second may be any length and its TopicIDs are reset to Unbound.
func New(topics []Topic, first, second []Question) (*Catalog, error) {
	if err := validate(topics, first, second); err != nil {
		return nil, err
	}
	c := &Catalog{
		topics: slices.Clone(topics),
		first:  slices.Clone(first),
		second: slices.Clone(second),
		byKey:  make(map[string]int, len(topics)),
	}
	for i := range c.second {
		c.second[i].TopicID = Unbound
	}
	for _, t := range topics {
		c.byKey[t.Key] = t.ID
	}
	return c, nil
}

// Topics returns all topics in ordinal order.
func (c *Catalog) Topics() []Topic {
	return slices.Clone(c.topics)
}

// TopicCount returns the number of topics.
func (c *Catalog) TopicCount() int {
	return len(c.topics)
}

// Topic returns the topic with the given ordinal ID.
func (c *Catalog) Topic(id int) (Topic, error) {
	if id < 0 || id >= len(c.topics) {
		return Topic{}, fmt.Errorf("topic %d out of range [0,%d)", id, len(c.topics))
	}
	return c.topics[id], nil
}

// TopicByKey returns the topic with the given stable key.
func (c *Catalog) TopicByKey(key string) (Topic, bool) {
	id, ok := c.byKey[key]
	if !ok {
		return Topic{}, false
	}
	return c.topics[id], true
}

// FirstStageLen returns the number of stage-one questions.
func (c *Catalog) FirstStageLen() int {
	return len(c.first)
}

// FirstStage returns the stage-one question at position i.
func (c *Catalog) FirstStage(i int) (Question, error) {
	if i < 0 || i >= len(c.first) {
		return Question{}, fmt.Errorf("stage-one question %d out of range [0,%d)", i, len(c.first))
	}
	return c.first[i], nil
}

// SecondStageLen returns the number of positional stage-two questions.
func (c *Catalog) SecondStageLen() int {
	return len(c.second)
}

// Second returns the stage-two question asked at narrowed position i.
func (c *Catalog) Second(i int) (Question, error) {
	if i < 0 || i >= len(c.second) {
		return Question{}, fmt.Errorf("stage-two question %d out of range [0,%d)", i, len(c.second))
	}
	return c.second[i], nil
}
