package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const progressPrefix = "progress/"

// Keep at most this many missed questions per topic; older ones roll off.
const maxMissedPerTopic = 100

// MissedQuestion is a question the user got wrong, kept for review.
type MissedQuestion struct {
	QuizID      string    `json:"quiz_id"`
	Prompt      string    `json:"prompt"`
	Options     []string  `json:"options"`
	Answer      int       `json:"answer"`
	Given       int       `json:"given"`
	Explanation string    `json:"explanation,omitempty"`
	MissedAt    time.Time `json:"missed_at"`
}

// TopicProgress aggregates quiz history for one topic.
type TopicProgress struct {
	TopicID      string           `json:"topic_id"`
	QuizzesTaken int              `json:"quizzes_taken"`
	Answered     int              `json:"answered"`
	Correct      int              `json:"correct"`
	LastScore    float64          `json:"last_score"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Missed       []MissedQuestion `json:"missed,omitempty"`
}

// Tracker layers typed progress records on top of a Store.
type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Topic returns the stored progress for a topic, or a zero record when the
// topic has never been quizzed.
func (t *Tracker) Topic(ctx context.Context, topicID string) (TopicProgress, error) {
	raw, ok, err := t.store.Get(ctx, progressPrefix+topicID)
	if err != nil {
		return TopicProgress{}, fmt.Errorf("progress: load %s: %w", topicID, err)
	}
	if !ok {
		return TopicProgress{TopicID: topicID}, nil
	}
	var p TopicProgress
	if err := json.Unmarshal(raw, &p); err != nil {
		// Corrupted record: start over rather than fail the request.
		return TopicProgress{TopicID: topicID}, nil
	}
	return p, nil
}

// Record folds one graded quiz into the topic's progress.
func (t *Tracker) Record(ctx context.Context, topicID string, correct, total int, missed []MissedQuestion) (TopicProgress, error) {
	p, err := t.Topic(ctx, topicID)
	if err != nil {
		return TopicProgress{}, err
	}
	p.QuizzesTaken++
	p.Answered += total
	p.Correct += correct
	if total > 0 {
		p.LastScore = float64(correct) / float64(total)
	}
	p.UpdatedAt = time.Now().UTC()
	p.Missed = append(p.Missed, missed...)
	if len(p.Missed) > maxMissedPerTopic {
		p.Missed = p.Missed[len(p.Missed)-maxMissedPerTopic:]
	}
	if err := t.save(ctx, p); err != nil {
		return TopicProgress{}, err
	}
	return p, nil
}

// Missed returns the review list for a topic.
func (t *Tracker) Missed(ctx context.Context, topicID string) ([]MissedQuestion, error) {
	p, err := t.Topic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return p.Missed, nil
}

// All lists progress for every topic that has any.
func (t *Tracker) All(ctx context.Context) ([]TopicProgress, error) {
	keys, err := t.store.List(ctx, progressPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]TopicProgress, 0, len(keys))
	for _, k := range keys {
		p, err := t.Topic(ctx, k[len(progressPrefix):])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Reset forgets everything recorded for a topic.
func (t *Tracker) Reset(ctx context.Context, topicID string) error {
	return t.store.Delete(ctx, progressPrefix+topicID)
}

func (t *Tracker) save(ctx context.Context, p TopicProgress) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return t.store.Set(ctx, progressPrefix+p.TopicID, raw)
}
