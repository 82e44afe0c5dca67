package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/internal/http/dto"
	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/service"
)

type QuestionHandler struct {
	questionService service.QuestionService
}

func NewQuestionHandler(questionService service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (h *QuestionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.questionService.Submit(ctx, service.SubmitInput{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
		Priority: model.Priority(req.Priority),
		Tags:     req.Tags,
	})
	if err != nil {
		respondError(c, err, "submit question")
		return
	}

	resp := dto.SubmitQuestionResponse{
		Question: dto.ToQuestionResponse(out.Question),
		Queued:   out.Queued,
	}
	if out.Assignment != nil {
		resp.Assignment = dto.ToAssignmentResponse(*out.Assignment)
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *QuestionHandler) List(c *gin.Context) {
	var query dto.ListQuestionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.ListInput{Page: query.Page, Limit: query.Limit}
	if query.Status != "" {
		in.Status = logger.Ptr(model.QuestionStatus(query.Status))
	}
	if query.Skill != "" {
		in.Skill = &query.Skill
	}
	if query.AuthorID != 0 {
		in.AuthorID = &query.AuthorID
	}

	page, err := h.questionService.List(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "list questions")
		return
	}

	resp := dto.QuestionListResponse{
		Questions: make([]dto.QuestionResponse, len(page.Questions)),
		Total:     page.Total,
		Page:      page.Page,
		Limit:     page.Limit,
	}
	for i := range page.Questions {
		resp.Questions[i] = dto.ToQuestionResponse(&page.Questions[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *QuestionHandler) Get(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.questionService.Get(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err, "load question")
		return
	}

	resp := dto.QuestionDetailResponse{
		Question:  dto.ToQuestionResponse(detail.Question),
		Responses: make([]dto.ResponseResponse, len(detail.Responses)),
	}
	for i := range detail.Responses {
		resp.Responses[i] = dto.ToResponseResponse(&detail.Responses[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *QuestionHandler) Act(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.QuestionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var moderatorID *int64
	if req.ModeratorID != 0 {
		moderatorID = &req.ModeratorID
	}

	q, err := h.questionService.Act(c.Request.Context(), questionID, service.Action(req.Action), moderatorID)
	if err != nil {
		respondError(c, err, req.Action+" question")
		return
	}

	c.JSON(http.StatusOK, dto.ToQuestionResponse(q))
}

func (h *QuestionHandler) Respond(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.questionService.Respond(c.Request.Context(), questionID, req.ModeratorID, req.Content, req.IsAnswer)
	if err != nil {
		respondError(c, err, "record response")
		return
	}

	c.JSON(http.StatusCreated, dto.ToResponseResponse(resp))
}
