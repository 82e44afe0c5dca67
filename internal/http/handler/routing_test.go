package handler_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"askhub.app/dispatch/internal/http/handler"
	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
	"askhub.app/dispatch/internal/service"
)

var _ = Describe("RoutingHandler", func() {
	var (
		router *gin.Engine
		svc    *mockRoutingService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockRoutingService{}
		h := handler.NewRoutingHandler(svc)
		router.POST("/routing/auto-assign", h.AutoAssign)
		router.POST("/routing/process-pending", h.ProcessPending)
		router.GET("/routing/stale", h.Stale)
		router.GET("/routing/stats", h.Stats)
	})

	Describe("AutoAssign", func() {
		It("returns the decision with the api trigger", func() {
			var trigger queue.Trigger
			svc.autoAssignFn = func(_ context.Context, id int64, t queue.Trigger) routing.Result {
				trigger = t
				return routing.Result{
					Success:    true,
					Message:    "Question auto-assigned successfully",
					QuestionID: id,
					Moderator:  &model.User{ID: 3, Name: "Mod"},
					Score:      1,
					SkillMatch: 1,
				}
			}

			w := doJSON(router, http.MethodPost, "/routing/auto-assign", map[string]any{"question_id": "42"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(trigger).To(Equal(queue.TriggerAPI))
			resp := decode(w)
			Expect(resp["question_id"]).To(Equal("42"))
			Expect(resp["assigned_to"].(map[string]any)["id"]).To(Equal("3"))
		})

		It("reports soft failures with 200", func() {
			svc.autoAssignFn = func(_ context.Context, id int64, _ queue.Trigger) routing.Result {
				return routing.Result{QuestionID: id, Message: "Question is not pending", Reason: routing.ReasonInvalidState}
			}

			w := doJSON(router, http.MethodPost, "/routing/auto-assign", map[string]any{"question_id": "42"})

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["success"]).To(BeFalse())
			Expect(resp["reason"]).To(Equal("invalid_state"))
			Expect(resp).NotTo(HaveKey("assigned_to"))
		})

		It("requires a question id", func() {
			w := doJSON(router, http.MethodPost, "/routing/auto-assign", map[string]any{})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ProcessPending", func() {
		It("runs the batch inline", func() {
			svc.processPendingFn = func(context.Context, queue.Trigger) routing.BatchResult {
				return routing.BatchResult{
					Success: true, Processed: 2, Assigned: 1, Failed: 1,
					Results: []routing.BatchItem{
						{QuestionID: 1, Priority: model.PriorityUrgent, Result: routing.Result{Success: true, QuestionID: 1}},
						{QuestionID: 2, Priority: model.PriorityLow, Result: routing.Result{QuestionID: 2, Reason: routing.ReasonNoCandidates}},
					},
				}
			}

			w := doJSON(router, http.MethodPost, "/routing/process-pending", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["processed"]).To(BeNumerically("==", 2))
			Expect(resp["results"]).To(HaveLen(2))
		})

		It("returns 500 when pending questions cannot be listed", func() {
			svc.processPendingFn = func(context.Context, queue.Trigger) routing.BatchResult {
				return routing.BatchResult{Message: "Failed to process pending questions"}
			}

			w := doJSON(router, http.MethodPost, "/routing/process-pending", nil)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})

		It("queues the batch when async", func() {
			queued := false
			svc.queueFn = func(context.Context, queue.Trigger) error {
				queued = true
				return nil
			}

			w := doJSON(router, http.MethodPost, "/routing/process-pending?async=true", nil)

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(queued).To(BeTrue())
		})

		It("returns 503 when no queue is configured", func() {
			svc.queueFn = func(context.Context, queue.Trigger) error { return service.ErrQueueUnavailable }

			w := doJSON(router, http.MethodPost, "/routing/process-pending?async=true", nil)

			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("Stale", func() {
		It("forwards the threshold and lists questions", func() {
			var hours int
			moderatorID := int64(3)
			svc.findStaleFn = func(_ context.Context, h int) ([]routing.StaleQuestion, error) {
				hours = h
				return []routing.StaleQuestion{{
					Question: model.Question{
						ID:         10,
						Status:     model.QuestionStatusInProgress,
						AssignedTo: &moderatorID,
						UpdatedAt:  time.Now().Add(-50 * time.Hour),
					},
					HoursSinceUpdate: 50,
				}}, nil
			}

			w := doJSON(router, http.MethodGet, "/routing/stale?hours=48", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(hours).To(Equal(48))
			resp := decode(w)
			Expect(resp["count"]).To(BeNumerically("==", 1))
			question := resp["questions"].([]any)[0].(map[string]any)
			Expect(question["hours_since_update"]).To(BeNumerically("==", 50))
			Expect(question["assigned_to"]).To(Equal("3"))
		})

		It("uses the default threshold when hours is absent", func() {
			hours := -1
			svc.findStaleFn = func(_ context.Context, h int) ([]routing.StaleQuestion, error) {
				hours = h
				return []routing.StaleQuestion{}, nil
			}

			w := doJSON(router, http.MethodGet, "/routing/stale", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(hours).To(Equal(0))
		})

		DescribeTable("rejects bad thresholds",
			func(query string) {
				w := doJSON(router, http.MethodGet, "/routing/stale?hours="+query, nil)

				Expect(w.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("negative", "-3"),
			Entry("not a number", "soon"),
			Entry("beyond the ten-year cap", "3000000"),
		)
	})

	Describe("Stats", func() {
		It("returns counts and moderator workloads", func() {
			svc.statsFn = func(context.Context) (*model.RoutingStats, error) {
				return &model.RoutingStats{
					Total: 10, Pending: 2, Assigned: 3, Answered: 4, Closed: 1,
					Moderators: []model.ModeratorWorkload{{ID: 3, Name: "Mod", TotalAssigned: 5, Active: 2}},
				}, nil
			}

			w := doJSON(router, http.MethodGet, "/routing/stats", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["closed"]).To(BeNumerically("==", 1))
			moderator := resp["moderators"].([]any)[0].(map[string]any)
			Expect(moderator["id"]).To(Equal("3"))
			Expect(moderator["skills"]).To(BeEmpty())
		})

		It("returns 500 when stats fail", func() {
			svc.statsFn = func(context.Context) (*model.RoutingStats, error) { return nil, errors.New("boom") }

			w := doJSON(router, http.MethodGet, "/routing/stats", nil)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})
})
