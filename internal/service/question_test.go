package service_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
	"askhub.app/dispatch/internal/service"
	"askhub.app/dispatch/internal/store"
)

var _ = Describe("QuestionService", func() {
	var (
		ctx        context.Context
		questions  *mockQuestionStore
		users      *mockUserStore
		responses  *mockResponseStore
		txRunner   *mockTxRunner
		assigner   *mockAssigner
		locker     *mockLocker
		classifier *mockClassifier
		producer   *mockProducer
		stored     map[int64]*model.Question
	)

	author := &model.User{ID: 7, Name: "Asker", Role: model.RoleUser}
	moderator := &model.User{ID: 9, Name: "Mod", Role: model.RoleModerator, Approved: true, Verified: true, Skills: []string{"Go", "Postgres"}}

	newService := func(withProducer bool) service.QuestionService {
		deps := service.QuestionDeps{
			Questions:  questions,
			Users:      users,
			Responses:  responses,
			TxRunner:   txRunner,
			Assigner:   assigner,
			Locker:     locker,
			Classifier: classifier,
		}
		if withProducer {
			deps.Producer = producer
		}
		return service.NewQuestionService(deps)
	}

	BeforeEach(func() {
		ctx = context.Background()
		stored = map[int64]*model.Question{}
		questions = &mockQuestionStore{
			createFn: func(_ context.Context, q *model.Question) error {
				cp := *q
				stored[q.ID] = &cp
				return nil
			},
			getByIDFn: func(_ context.Context, id int64) (*model.Question, error) {
				if q, ok := stored[id]; ok {
					cp := *q
					return &cp, nil
				}
				return nil, store.ErrNotFound
			},
		}
		users = &mockUserStore{
			getByIDFn: func(_ context.Context, id int64) (*model.User, error) {
				switch id {
				case author.ID:
					return author, nil
				case moderator.ID:
					return moderator, nil
				}
				return nil, store.ErrNotFound
			},
			listAvailableModeratorsFn: func(context.Context, []string) ([]model.User, error) {
				return []model.User{*moderator, {ID: 10, Skills: []string{"go", "Redis"}}}, nil
			},
		}
		responses = &mockResponseStore{}
		txRunner = &mockTxRunner{}
		txRunner.stores = &mockStoreProvider{questions: questions, responses: responses}
		assigner = &mockAssigner{}
		locker = &mockLocker{}
		classifier = &mockClassifier{}
		producer = &mockProducer{}
	})

	Describe("Submit", func() {
		valid := service.SubmitInput{
			Title:    "Slow query",
			Content:  "My Postgres join takes ten seconds on a small table.",
			AuthorID: 7,
			Tags:     []string{"sql", " SQL ", "perf", ""},
		}

		It("stores a pending question with suggested skills and a summary", func() {
			classifier.classifyFn = func(context.Context, string, []string) ([]string, error) {
				return []string{"Postgres"}, nil
			}

			out, err := newService(false).Submit(ctx, valid)

			Expect(err).NotTo(HaveOccurred())
			q := stored[out.Question.ID]
			Expect(q.Status).To(Equal(model.QuestionStatusPending))
			Expect(q.Priority).To(Equal(model.PriorityMedium))
			Expect(q.SuggestedSkills).To(Equal([]string{"Postgres"}))
			Expect(q.Tags).To(Equal([]string{"sql", "perf"}))
			Expect(q.Summary).To(HaveValue(Equal("Slow query. My Postgres join takes ten seconds on a small table.")))
		})

		It("classifies title and content against the moderators' skills", func() {
			_, err := newService(false).Submit(ctx, valid)

			Expect(err).NotTo(HaveOccurred())
			Expect(classifier.texts).To(Equal([]string{valid.Title + " " + valid.Content}))
			Expect(classifier.vocab).To(Equal([][]string{{"Go", "Postgres", "Redis"}}))
		})

		It("runs auto-assignment inline without a queue", func() {
			assigner.autoAssignFn = func(_ context.Context, qid int64) routing.Result {
				stored[qid].Status = model.QuestionStatusAssigned
				stored[qid].AssignedTo = &moderator.ID
				return routing.Result{Success: true, QuestionID: qid, Moderator: moderator}
			}

			out, err := newService(false).Submit(ctx, valid)

			Expect(err).NotTo(HaveOccurred())
			Expect(assigner.calls).To(Equal([]int64{out.Question.ID}))
			Expect(out.Assignment.Success).To(BeTrue())
			Expect(out.Question.Status).To(Equal(model.QuestionStatusAssigned))
			Expect(out.Queued).To(BeFalse())
		})

		It("keeps the question when auto-assignment fails", func() {
			out, err := newService(false).Submit(ctx, valid)

			Expect(err).NotTo(HaveOccurred())
			Expect(out.Assignment.Success).To(BeFalse())
			Expect(stored[out.Question.ID].Status).To(Equal(model.QuestionStatusPending))
		})

		It("enqueues auto-assignment when a queue is configured", func() {
			out, err := newService(true).Submit(ctx, valid)

			Expect(err).NotTo(HaveOccurred())
			Expect(out.Queued).To(BeTrue())
			Expect(assigner.calls).To(BeEmpty())
			Expect(producer.tasks).To(HaveLen(1))
			Expect(producer.tasks[0].TaskType).To(Equal(queue.TaskTypeAutoAssign))
			Expect(producer.tasks[0].QuestionID).To(HaveValue(Equal(out.Question.ID)))
			Expect(producer.tasks[0].Trigger).To(Equal(queue.TriggerSubmit))
		})

		It("assigns inline when the enqueue fails", func() {
			producer.enqueueFn = func(context.Context, queue.Task) error {
				return errors.New("redis down")
			}

			out, err := newService(true).Submit(ctx, valid)

			Expect(err).NotTo(HaveOccurred())
			Expect(out.Queued).To(BeFalse())
			Expect(assigner.calls).To(HaveLen(1))
		})

		It("still submits when classification fails", func() {
			classifier.classifyFn = func(context.Context, string, []string) ([]string, error) {
				return nil, errors.New("boom")
			}

			out, err := newService(false).Submit(ctx, valid)

			Expect(err).NotTo(HaveOccurred())
			Expect(stored[out.Question.ID].SuggestedSkills).To(BeEmpty())
		})

		DescribeTable("rejects invalid input",
			func(mutate func(in *service.SubmitInput)) {
				in := valid
				in.Tags = nil
				mutate(&in)

				_, err := newService(false).Submit(ctx, in)

				Expect(err).To(MatchError(service.ErrInvalidInput))
				Expect(stored).To(BeEmpty())
			},
			Entry("missing title", func(in *service.SubmitInput) { in.Title = "  " }),
			Entry("long title", func(in *service.SubmitInput) { in.Title = strings.Repeat("t", 201) }),
			Entry("missing content", func(in *service.SubmitInput) { in.Content = "" }),
			Entry("long content", func(in *service.SubmitInput) { in.Content = strings.Repeat("c", 5001) }),
			Entry("too many tags", func(in *service.SubmitInput) {
				for i := range 11 {
					in.Tags = append(in.Tags, strings.Repeat("x", i+1))
				}
			}),
			Entry("unknown priority", func(in *service.SubmitInput) { in.Priority = "critical" }),
		)

		It("rejects unknown authors", func() {
			in := valid
			in.AuthorID = 404

			_, err := newService(false).Submit(ctx, in)

			Expect(err).To(MatchError(service.ErrUserNotFound))
		})

		It("wraps store failures", func() {
			questions.createFn = func(context.Context, *model.Question) error {
				return errors.New("insert failed")
			}

			_, err := newService(false).Submit(ctx, valid)

			Expect(err).To(MatchError(ContainSubstring("creating question")))
		})
	})

	Describe("List", func() {
		It("pages with defaults and caps", func() {
			var got store.QuestionFilter
			questions.listFn = func(_ context.Context, f store.QuestionFilter) ([]model.Question, error) {
				got = f
				return []model.Question{}, nil
			}
			questions.countFn = func(context.Context, store.QuestionFilter) (int, error) { return 45, nil }

			page, err := newService(false).List(ctx, service.ListInput{Page: 3, Limit: 500})

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Limit).To(Equal(int32(100)))
			Expect(got.Offset).To(Equal(int32(200)))
			Expect(page.Total).To(Equal(45))
			Expect(page.Page).To(Equal(3))
		})

		It("rejects unknown statuses", func() {
			status := model.QuestionStatus("escalated")

			_, err := newService(false).List(ctx, service.ListInput{Status: &status})

			Expect(err).To(MatchError(service.ErrInvalidInput))
		})
	})

	Describe("Act", func() {
		seed := func(status model.QuestionStatus, assignedTo *int64) {
			stored[1] = &model.Question{ID: 1, Status: status, AssignedTo: assignedTo}
		}

		It("assigns to an approved moderator under the moderator lock", func() {
			seed(model.QuestionStatusPending, nil)

			q, err := newService(false).Act(ctx, 1, service.ActionAssign, &moderator.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(q.Status).To(Equal(model.QuestionStatusAssigned))
			Expect(locker.locked).To(Equal([][]int64{{9}}))
			Expect(locker.released).To(Equal(1))
		})

		It("refuses to assign to a non-moderator", func() {
			seed(model.QuestionStatusPending, nil)

			_, err := newService(false).Act(ctx, 1, service.ActionAssign, &author.ID)

			Expect(err).To(MatchError(service.ErrNotModerator))
			Expect(locker.locked).To(BeEmpty())
		})

		It("requires a moderator id to assign", func() {
			seed(model.QuestionStatusPending, nil)

			_, err := newService(false).Act(ctx, 1, service.ActionAssign, nil)

			Expect(err).To(MatchError(service.ErrInvalidInput))
		})

		It("unassigns an active question back to pending", func() {
			seed(model.QuestionStatusInProgress, &moderator.ID)

			q, err := newService(false).Act(ctx, 1, service.ActionUnassign, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(q.Status).To(Equal(model.QuestionStatusPending))
		})

		It("refuses to unassign a pending question", func() {
			seed(model.QuestionStatusPending, nil)

			_, err := newService(false).Act(ctx, 1, service.ActionUnassign, nil)

			Expect(err).To(MatchError(service.ErrInvalidTransition))
		})

		DescribeTable("reopen",
			func(assignedTo *int64, want model.QuestionStatus) {
				seed(model.QuestionStatusClosed, assignedTo)

				q, err := newService(false).Act(ctx, 1, service.ActionReopen, nil)

				Expect(err).NotTo(HaveOccurred())
				Expect(q.Status).To(Equal(want))
			},
			Entry("with an assignee", &moderator.ID, model.QuestionStatusAssigned),
			Entry("without an assignee", nil, model.QuestionStatusPending),
		)

		It("reopens to the previous moderator under that moderator's lock", func() {
			seed(model.QuestionStatusAnswered, &moderator.ID)

			_, err := newService(false).Act(ctx, 1, service.ActionReopen, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(locker.locked).To(Equal([][]int64{{9}}))
			Expect(locker.released).To(Equal(1))
		})

		It("reopens an unassigned question without locking", func() {
			seed(model.QuestionStatusClosed, nil)

			_, err := newService(false).Act(ctx, 1, service.ActionReopen, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(locker.locked).To(BeEmpty())
		})

		It("leaves the question closed when the moderator lock is unavailable", func() {
			seed(model.QuestionStatusClosed, &moderator.ID)
			locker.err = errors.New("lock wait exceeded")
			written := false
			questions.updateStatusFn = func(_ context.Context, id int64, status model.QuestionStatus) (*model.Question, error) {
				written = true
				return &model.Question{ID: id, Status: status}, nil
			}

			_, err := newService(false).Act(ctx, 1, service.ActionReopen, nil)

			Expect(err).To(HaveOccurred())
			Expect(written).To(BeFalse())
		})

		It("closes an open question", func() {
			seed(model.QuestionStatusAssigned, &moderator.ID)

			q, err := newService(false).Act(ctx, 1, service.ActionClose, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(q.Status).To(Equal(model.QuestionStatusClosed))
		})

		It("reports missing questions", func() {
			_, err := newService(false).Act(ctx, 404, service.ActionClose, nil)

			Expect(err).To(MatchError(service.ErrQuestionNotFound))
		})

		It("rejects unknown actions", func() {
			seed(model.QuestionStatusPending, nil)

			_, err := newService(false).Act(ctx, 1, service.Action("escalate"), nil)

			Expect(err).To(MatchError(service.ErrInvalidInput))
		})
	})

	Describe("Respond", func() {
		var statusUpdates []model.QuestionStatus

		BeforeEach(func() {
			statusUpdates = nil
			questions.updateStatusFn = func(_ context.Context, id int64, status model.QuestionStatus) (*model.Question, error) {
				statusUpdates = append(statusUpdates, status)
				return &model.Question{ID: id, Status: status}, nil
			}
		})

		It("moves an assigned question to in-progress on a non-answer", func() {
			stored[1] = &model.Question{ID: 1, Status: model.QuestionStatusAssigned, AssignedTo: &moderator.ID}

			resp, err := newService(false).Respond(ctx, 1, moderator.ID, "Can you share the plan?", false)

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.QuestionID).To(Equal(int64(1)))
			Expect(statusUpdates).To(Equal([]model.QuestionStatus{model.QuestionStatusInProgress}))
			Expect(txRunner.calls).To(Equal(1))
		})

		It("marks the question answered on an answer", func() {
			stored[1] = &model.Question{ID: 1, Status: model.QuestionStatusInProgress, AssignedTo: &moderator.ID}

			_, err := newService(false).Respond(ctx, 1, moderator.ID, "Add an index on user_id.", true)

			Expect(err).NotTo(HaveOccurred())
			Expect(statusUpdates).To(Equal([]model.QuestionStatus{model.QuestionStatusAnswered}))
		})

		It("leaves status alone for follow-ups on in-progress questions", func() {
			stored[1] = &model.Question{ID: 1, Status: model.QuestionStatusInProgress, AssignedTo: &moderator.ID}

			_, err := newService(false).Respond(ctx, 1, moderator.ID, "Still looking.", false)

			Expect(err).NotTo(HaveOccurred())
			Expect(statusUpdates).To(BeEmpty())
		})

		It("rejects regular users", func() {
			stored[1] = &model.Question{ID: 1, Status: model.QuestionStatusAssigned}

			_, err := newService(false).Respond(ctx, 1, author.ID, "me too", false)

			Expect(err).To(MatchError(service.ErrNotModerator))
		})

		It("rejects long content", func() {
			_, err := newService(false).Respond(ctx, 1, moderator.ID, strings.Repeat("a", 3001), false)

			Expect(err).To(MatchError(service.ErrInvalidInput))
		})

		It("surfaces transaction failures", func() {
			stored[1] = &model.Question{ID: 1, Status: model.QuestionStatusAssigned}
			responses.createFn = func(context.Context, *model.Response) error {
				return errors.New("fk violation")
			}

			_, err := newService(false).Respond(ctx, 1, moderator.ID, "hi", false)

			Expect(err).To(MatchError(ContainSubstring("creating response")))
			Expect(statusUpdates).To(BeEmpty())
		})
	})
})
