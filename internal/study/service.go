package study

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"opostudy/internal/llm"
	"opostudy/internal/mermaid"
	"opostudy/internal/progress"
	"opostudy/internal/syllabus"
	"opostudy/internal/util/jsonutil"
)

const defaultQuestionCount = 10

// ErrQuizNotFound reports a grade request against an id no stored quiz has.
var ErrQuizNotFound = errors.New("study: unknown quiz")

// Service turns topics into study materials and quizzes. Generated materials
// are cached in memory and persisted through the progress store so a restart
// does not re-bill the backend.
type Service struct {
	cli     llm.Client
	store   progress.Store
	tracker *progress.Tracker
	cache   *expirable.LRU[string, Material]
}

func NewService(cli llm.Client, store progress.Store, cacheSize int, cacheTTL time.Duration) *Service {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &Service{
		cli:     cli,
		store:   store,
		tracker: progress.NewTracker(store),
		cache:   expirable.NewLRU[string, Material](cacheSize, nil, cacheTTL),
	}
}

// Tracker exposes the progress records built on the same store.
func (s *Service) Tracker() *progress.Tracker { return s.tracker }

// Material returns the study material for a topic, generating it when there
// is no cached or stored copy, or when force is set.
func (s *Service) Material(ctx context.Context, topic syllabus.Topic, force bool) (Material, error) {
	if !force {
		if m, ok := s.cache.Get(topic.ID); ok {
			return m, nil
		}
		if m, ok := s.loadStored(ctx, topic.ID); ok {
			s.cache.Add(topic.ID, m)
			return m, nil
		}
	}
	m, err := s.generateMaterial(ctx, topic)
	if err != nil {
		return Material{}, err
	}
	s.cache.Add(topic.ID, m)
	if raw, err := json.Marshal(m); err == nil {
		if err := s.store.Set(ctx, materialKey(topic.ID), raw); err != nil {
			log.Printf("study: persist material %s: %v", topic.ID, err)
		}
	}
	return m, nil
}

// StoredMaterial returns the persisted material without generating.
func (s *Service) StoredMaterial(ctx context.Context, topicID string) (Material, bool) {
	if m, ok := s.cache.Get(topicID); ok {
		return m, true
	}
	return s.loadStored(ctx, topicID)
}

func (s *Service) loadStored(ctx context.Context, topicID string) (Material, bool) {
	raw, ok, err := s.store.Get(ctx, materialKey(topicID))
	if err != nil || !ok {
		return Material{}, false
	}
	var m Material
	if err := json.Unmarshal(raw, &m); err != nil {
		return Material{}, false
	}
	return m, true
}

type guidePayload struct {
	Guide   string            `json:"guide"`
	Diagram string            `json:"diagram"`
	Details map[string]string `json:"details"`
}

func (s *Service) generateMaterial(ctx context.Context, topic syllabus.Topic) (Material, error) {
	ctx = llm.WithKind(ctx, llm.KindGuide)
	raw, err := s.cli.GenerateJSON(ctx, guidePrompt, guideInput(topic))
	if err != nil {
		return Material{}, fmt.Errorf("study: generate material for %s: %w", topic.ID, err)
	}
	var p guidePayload
	if err := jsonutil.UnmarshalFlex(raw, &p); err != nil {
		return Material{}, fmt.Errorf("study: decode material for %s: %w", topic.ID, err)
	}
	if strings.TrimSpace(p.Guide) == "" {
		return Material{}, fmt.Errorf("study: empty guide for %s: %w", topic.ID, llm.ErrInvalidJSON)
	}
	return Material{
		TopicID: topic.ID,
		Guide:   p.Guide,
		// The model's diagram is unreliable by construction; only the
		// repaired form is ever stored or served.
		Diagram:     mermaid.Repair(p.Diagram),
		Details:     p.Details,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

type quizPayload struct {
	Questions []struct {
		Prompt      string   `json:"prompt"`
		Options     []string `json:"options"`
		Answer      int      `json:"answer"`
		Explanation string   `json:"explanation"`
	} `json:"questions"`
}

// NewQuiz generates a quiz for the topic and stores it so Grade can trust the
// answer key. Malformed questions from the model are dropped, not fatal.
func (s *Service) NewQuiz(ctx context.Context, topic syllabus.Topic, count int) (Quiz, error) {
	if count <= 0 {
		count = defaultQuestionCount
	}
	ctx = llm.WithKind(ctx, llm.KindQuiz)
	raw, err := s.cli.GenerateJSON(ctx, quizPrompt, quizInput(topic, count))
	if err != nil {
		return Quiz{}, fmt.Errorf("study: generate quiz for %s: %w", topic.ID, err)
	}
	var p quizPayload
	if err := jsonutil.UnmarshalFlex(raw, &p); err != nil {
		return Quiz{}, fmt.Errorf("study: decode quiz for %s: %w", topic.ID, err)
	}

	quizID, err := gonanoid.New()
	if err != nil {
		return Quiz{}, err
	}
	quiz := Quiz{ID: quizID, TopicID: topic.ID, GeneratedAt: time.Now().UTC()}
	for i, q := range p.Questions {
		if strings.TrimSpace(q.Prompt) == "" || len(q.Options) < 2 {
			continue
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			continue
		}
		quiz.Questions = append(quiz.Questions, Question{
			ID:          fmt.Sprintf("%s-%d", quizID, i+1),
			Prompt:      q.Prompt,
			Options:     q.Options,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
		if len(quiz.Questions) == count {
			break
		}
	}
	if len(quiz.Questions) == 0 {
		return Quiz{}, fmt.Errorf("study: no usable questions for %s: %w", topic.ID, llm.ErrInvalidJSON)
	}

	rawQuiz, err := json.Marshal(quiz)
	if err != nil {
		return Quiz{}, err
	}
	if err := s.store.Set(ctx, quizKey(quiz.ID), rawQuiz); err != nil {
		return Quiz{}, fmt.Errorf("study: store quiz %s: %w", quiz.ID, err)
	}
	return quiz, nil
}

// Quiz loads a stored quiz by id.
func (s *Service) Quiz(ctx context.Context, quizID string) (Quiz, bool, error) {
	raw, ok, err := s.store.Get(ctx, quizKey(quizID))
	if err != nil || !ok {
		return Quiz{}, false, err
	}
	var q Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return Quiz{}, false, nil
	}
	return q, true, nil
}

// Grade scores a submission against the stored quiz and folds the outcome
// into the topic's progress. Answers shorter than the quiz count unanswered
// questions as wrong; answer index -1 means unanswered.
func (s *Service) Grade(ctx context.Context, quizID string, answers []int) (Result, error) {
	quiz, ok, err := s.Quiz(ctx, quizID)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrQuizNotFound, quizID)
	}
	res := GradeQuiz(quiz, answers)

	missed := make([]progress.MissedQuestion, 0, len(res.Missed))
	now := time.Now().UTC()
	for _, m := range res.Missed {
		missed = append(missed, progress.MissedQuestion{
			QuizID:      quiz.ID,
			Prompt:      m.Question.Prompt,
			Options:     m.Question.Options,
			Answer:      m.Question.Answer,
			Given:       m.Given,
			Explanation: m.Question.Explanation,
			MissedAt:    now,
		})
	}
	if _, err := s.tracker.Record(ctx, quiz.TopicID, res.Correct, res.Total, missed); err != nil {
		return Result{}, err
	}
	return res, nil
}

// GradeQuiz is the pure scoring function.
func GradeQuiz(quiz Quiz, answers []int) Result {
	res := Result{QuizID: quiz.ID, TopicID: quiz.TopicID, Total: len(quiz.Questions)}
	for i, q := range quiz.Questions {
		given := -1
		if i < len(answers) {
			given = answers[i]
		}
		if given == q.Answer {
			res.Correct++
			continue
		}
		res.Missed = append(res.Missed, MissedAnswer{Question: q, Given: given})
	}
	if res.Total > 0 {
		res.Score = float64(res.Correct) / float64(res.Total)
	}
	return res
}
