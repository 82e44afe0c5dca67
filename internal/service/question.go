package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"askhub.app/dispatch/common/id"
	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/internal/classifier"
	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
	"askhub.app/dispatch/internal/store"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Action string

const (
	ActionAssign   Action = "assign"
	ActionUnassign Action = "unassign"
	ActionClose    Action = "close"
	ActionReopen   Action = "reopen"
)

type SubmitInput struct {
	Title    string
	Content  string
	AuthorID int64
	Priority model.Priority
	Tags     []string
}

type SubmitResult struct {
	Question *model.Question
	// Assignment is set when auto-assignment ran inline.
	Assignment *routing.Result
	Queued     bool
}

type ListInput struct {
	Status   *model.QuestionStatus
	Skill    *string
	AuthorID *int64
	Page     int
	Limit    int
}

type QuestionPage struct {
	Questions []model.Question
	Total     int
	Page      int
	Limit     int
}

type QuestionDetail struct {
	Question  *model.Question
	Responses []model.Response
}

type QuestionService interface {
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)
	Get(ctx context.Context, questionID int64) (*QuestionDetail, error)
	List(ctx context.Context, in ListInput) (*QuestionPage, error)
	Act(ctx context.Context, questionID int64, action Action, moderatorID *int64) (*model.Question, error)
	Respond(ctx context.Context, questionID, moderatorID int64, content string, isAnswer bool) (*model.Response, error)
}

// Assigner runs one auto-assignment decision.
type Assigner interface {
	AutoAssign(ctx context.Context, questionID int64) routing.Result
}

type QuestionDeps struct {
	Questions  store.QuestionStore
	Users      store.UserStore
	Responses  store.ResponseStore
	TxRunner   TxRunner
	Assigner   Assigner
	Locker     routing.Locker
	Classifier classifier.Classifier
	Summarizer classifier.Summarizer
	Producer   queue.Producer
}

type questionService struct {
	questions  store.QuestionStore
	users      store.UserStore
	responses  store.ResponseStore
	txRunner   TxRunner
	assigner   Assigner
	locker     routing.Locker
	classifier classifier.Classifier
	summarizer classifier.Summarizer
	producer   queue.Producer
}

func NewQuestionService(deps QuestionDeps) QuestionService {
	s := &questionService{
		questions:  deps.Questions,
		users:      deps.Users,
		responses:  deps.Responses,
		txRunner:   deps.TxRunner,
		assigner:   deps.Assigner,
		locker:     deps.Locker,
		classifier: deps.Classifier,
		summarizer: deps.Summarizer,
		producer:   deps.Producer,
	}
	if s.locker == nil {
		s.locker = routing.NewKeyedLocker()
	}
	if s.classifier == nil {
		s.classifier = classifier.NewKeywordClassifier(classifier.Config{})
	}
	if s.summarizer == nil {
		s.summarizer = classifier.NewTruncatingSummarizer()
	}
	return s
}

func (s *questionService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Tags = cleanList(in.Tags)
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if err := validateSubmit(in); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, in.AuthorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading author: %w", err)
	}

	skills := s.suggestSkills(ctx, in.Title+" "+in.Content)

	summary, err := s.summarizer.Summarize(ctx, in.Title, in.Content)
	if err != nil {
		slog.WarnContext(ctx, "failed to summarize question", "error", err)
		summary = classifier.FallbackSummary(in.Title, in.Content)
	}

	q := &model.Question{
		ID:              id.New(),
		Title:           in.Title,
		Content:         in.Content,
		Summary:         &summary,
		AuthorID:        in.AuthorID,
		Status:          model.QuestionStatusPending,
		Priority:        in.Priority,
		SuggestedSkills: skills,
		Tags:            in.Tags,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		slog.ErrorContext(ctx, "failed to create question",
			"error", err,
			"author_id", in.AuthorID)
		return nil, fmt.Errorf("creating question: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{QuestionID: &q.ID})
	slog.InfoContext(ctx, "question submitted",
		"priority", q.Priority,
		"suggested_skills", q.SuggestedSkills)

	return s.triggerAssignment(ctx, q), nil
}

// triggerAssignment hands the new question to the worker, or assigns it
// inline when no queue is configured or the enqueue fails. The question is
// already stored, so failures here only leave it pending.
func (s *questionService) triggerAssignment(ctx context.Context, q *model.Question) *SubmitResult {
	out := &SubmitResult{Question: q}

	if s.producer != nil {
		traceID := logger.TraceID(ctx)
		err := s.producer.Enqueue(ctx, queue.Task{
			TaskType:   queue.TaskTypeAutoAssign,
			QuestionID: &q.ID,
			Trigger:    queue.TriggerSubmit,
			TraceID:    &traceID,
		})
		if err == nil {
			out.Queued = true
			return out
		}
		slog.WarnContext(ctx, "failed to enqueue auto-assignment, assigning inline", "error", err)
	}

	if s.assigner == nil {
		return out
	}

	result := s.assigner.AutoAssign(ctx, q.ID)
	out.Assignment = &result
	if !result.Success {
		return out
	}

	updated, err := s.questions.GetByID(ctx, q.ID)
	if err != nil {
		slog.WarnContext(ctx, "failed to reload assigned question", "error", err)
		return out
	}
	out.Question = updated
	return out
}

func (s *questionService) suggestSkills(ctx context.Context, text string) []string {
	moderators, err := s.users.ListAvailableModerators(ctx, nil)
	if err != nil {
		slog.WarnContext(ctx, "failed to load skill vocabulary", "error", err)
		return []string{}
	}

	vocabulary := skillVocabulary(moderators)
	if len(vocabulary) == 0 {
		return []string{}
	}

	skills, err := s.classifier.Classify(ctx, text, vocabulary)
	if err != nil {
		slog.WarnContext(ctx, "failed to classify question", "error", err)
		return []string{}
	}
	if len(skills) > model.MaxSuggestedSkills {
		skills = skills[:model.MaxSuggestedSkills]
	}
	return skills
}

// skillVocabulary lists every moderator skill once, first spelling wins.
func skillVocabulary(moderators []model.User) []string {
	seen := map[string]bool{}
	vocabulary := []string{}
	for _, m := range moderators {
		for _, skill := range m.Skills {
			key := strings.ToLower(strings.TrimSpace(skill))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			vocabulary = append(vocabulary, skill)
		}
	}
	return vocabulary
}

func (s *questionService) Get(ctx context.Context, questionID int64) (*QuestionDetail, error) {
	q, err := s.getQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	responses, err := s.responses.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("listing responses: %w", err)
	}

	return &QuestionDetail{Question: q, Responses: responses}, nil
}

func (s *questionService) List(ctx context.Context, in ListInput) (*QuestionPage, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 {
		in.Limit = DefaultPageSize
	}
	if in.Limit > MaxPageSize {
		in.Limit = MaxPageSize
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
	}

	filter := store.QuestionFilter{
		Status:   in.Status,
		Skill:    in.Skill,
		AuthorID: in.AuthorID,
		Limit:    int32(in.Limit),
		Offset:   int32((in.Page - 1) * in.Limit),
	}

	questions, err := s.questions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	total, err := s.questions.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("counting questions: %w", err)
	}

	return &QuestionPage{
		Questions: questions,
		Total:     total,
		Page:      in.Page,
		Limit:     in.Limit,
	}, nil
}

func (s *questionService) Act(ctx context.Context, questionID int64, action Action, moderatorID *int64) (*model.Question, error) {
	q, err := s.getQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{QuestionID: &questionID})

	var updated *model.Question
	switch action {
	case ActionAssign:
		if moderatorID == nil {
			return nil, fmt.Errorf("%w: moderator_id is required to assign", ErrInvalidInput)
		}
		updated, err = s.assign(ctx, q, *moderatorID)
	case ActionUnassign:
		if !q.Status.Active() {
			return nil, fmt.Errorf("%w: cannot unassign a %s question", ErrInvalidTransition, q.Status)
		}
		updated, err = s.questions.Unassign(ctx, questionID)
	case ActionClose:
		if q.Status == model.QuestionStatusClosed {
			return nil, fmt.Errorf("%w: question is already closed", ErrInvalidTransition)
		}
		updated, err = s.questions.UpdateStatus(ctx, questionID, model.QuestionStatusClosed)
	case ActionReopen:
		if q.Status != model.QuestionStatusClosed && q.Status != model.QuestionStatusAnswered {
			return nil, fmt.Errorf("%w: cannot reopen a %s question", ErrInvalidTransition, q.Status)
		}
		if q.AssignedTo == nil {
			updated, err = s.questions.UpdateStatus(ctx, questionID, model.QuestionStatusPending)
			break
		}
		updated, err = s.reopenAssigned(ctx, questionID, *q.AssignedTo)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotModerator) ||
			errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		slog.ErrorContext(ctx, "question action failed", "error", err, "action", action)
		return nil, fmt.Errorf("applying %s: %w", action, err)
	}

	slog.InfoContext(ctx, "question action applied",
		"action", action,
		"status", updated.Status)
	return updated, nil
}

// assign hands q to moderatorID under the same per-moderator lock as
// auto-assignment, so the manual write cannot interleave with a decision
// that is reading that moderator's workload.
func (s *questionService) assign(ctx context.Context, q *model.Question, moderatorID int64) (*model.Question, error) {
	if q.Status == model.QuestionStatusAnswered || q.Status == model.QuestionStatusClosed {
		return nil, fmt.Errorf("%w: cannot assign a %s question", ErrInvalidTransition, q.Status)
	}

	moderator, err := s.users.GetByID(ctx, moderatorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading moderator: %w", err)
	}
	if moderator.Role != model.RoleModerator || !moderator.Approved {
		return nil, ErrNotModerator
	}

	unlock, err := s.locker.Lock(ctx, []int64{moderatorID})
	if err != nil {
		return nil, fmt.Errorf("locking moderator %d: %w", moderatorID, err)
	}
	defer unlock()

	return s.questions.Assign(ctx, q.ID, moderatorID)
}

// reopenAssigned returns a question to its previous moderator's active load,
// under that moderator's lock.
func (s *questionService) reopenAssigned(ctx context.Context, questionID, moderatorID int64) (*model.Question, error) {
	unlock, err := s.locker.Lock(ctx, []int64{moderatorID})
	if err != nil {
		return nil, fmt.Errorf("locking moderator %d: %w", moderatorID, err)
	}
	defer unlock()

	return s.questions.UpdateStatus(ctx, questionID, model.QuestionStatusAssigned)
}

func (s *questionService) Respond(ctx context.Context, questionID, moderatorID int64, content string, isAnswer bool) (*model.Response, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if len([]rune(content)) > model.MaxResponseLength {
		return nil, fmt.Errorf("%w: content must be at most %d characters", ErrInvalidInput, model.MaxResponseLength)
	}

	q, err := s.getQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.Status == model.QuestionStatusClosed {
		return nil, fmt.Errorf("%w: question is closed", ErrInvalidTransition)
	}

	responder, err := s.users.GetByID(ctx, moderatorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading responder: %w", err)
	}
	if responder.Role != model.RoleModerator && responder.Role != model.RoleAdmin {
		return nil, ErrNotModerator
	}

	resp := &model.Response{
		ID:          id.New(),
		QuestionID:  q.ID,
		ModeratorID: moderatorID,
		Content:     content,
		IsAnswer:    isAnswer,
	}

	var next model.QuestionStatus
	switch {
	case isAnswer:
		next = model.QuestionStatusAnswered
	case q.Status == model.QuestionStatusAssigned:
		next = model.QuestionStatusInProgress
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Responses().Create(ctx, resp); err != nil {
			return fmt.Errorf("creating response: %w", err)
		}
		if next == "" {
			return nil
		}
		if _, err := stores.Questions().UpdateStatus(ctx, q.ID, next); err != nil {
			return fmt.Errorf("updating status to %s: %w", next, err)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to record response",
			"error", err,
			"question_id", q.ID,
			"moderator_id", moderatorID)
		return nil, err
	}

	slog.InfoContext(ctx, "response recorded",
		"question_id", q.ID,
		"moderator_id", moderatorID,
		"is_answer", isAnswer)
	return resp, nil
}

func (s *questionService) getQuestion(ctx context.Context, questionID int64) (*model.Question, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("loading question: %w", err)
	}
	return q, nil
}

func validateSubmit(in SubmitInput) error {
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case len([]rune(in.Title)) > model.MaxTitleLength:
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, model.MaxTitleLength)
	case in.Content == "":
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	case len([]rune(in.Content)) > model.MaxContentLength:
		return fmt.Errorf("%w: content must be at most %d characters", ErrInvalidInput, model.MaxContentLength)
	case len(in.Tags) > model.MaxTags:
		return fmt.Errorf("%w: at most %d tags allowed", ErrInvalidInput, model.MaxTags)
	case !in.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, in.Priority)
	}
	return nil
}

// cleanList trims entries and drops blanks and case-insensitive duplicates.
func cleanList(values []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
