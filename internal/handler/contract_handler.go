package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/agrocoin/internal/auth"
	"github.com/blues/agrocoin/internal/contract"
	"github.com/blues/agrocoin/internal/event"
	"github.com/blues/agrocoin/internal/model"
	"github.com/gin-gonic/gin"
)

// 签名授权模式的请求头
const (
	headerAuthMessage   = "X-Auth-Message"
	headerAuthSignature = "X-Auth-Signature"
)

// ContractHandler 合约操作接口
type ContractHandler struct {
	engine   *contract.Engine
	recorder *event.Recorder
	authMode string
}

// NewContractHandler 创建合约操作接口
func NewContractHandler(engine *contract.Engine, recorder *event.Recorder, authMode string) *ContractHandler {
	return &ContractHandler{
		engine:   engine,
		recorder: recorder,
		authMode: authMode,
	}
}

// authorizedEngine 按请求构造授权器。signature模式下从请求头恢复签名人，
// 引擎只放行与签名人一致的principal。
func (h *ContractHandler) authorizedEngine(c *gin.Context) (*contract.Engine, bool) {
	if h.authMode != "signature" {
		return h.engine.WithAuthorizer(auth.StaticAuthorizer{}), true
	}

	message := c.GetHeader(headerAuthMessage)
	signature := c.GetHeader(headerAuthSignature)
	if message == "" || signature == "" {
		ErrorResponse(c, http.StatusUnauthorized, "缺少签名请求头")
		return nil, false
	}

	signer, err := auth.RecoverSigner([]byte(message), signature)
	if err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "签名验证失败: "+err.Error())
		return nil, false
	}

	return h.engine.WithAuthorizer(auth.Signer(signer)), true
}

// Initialize 初始化合约
func (h *ContractHandler) Initialize(c *gin.Context) {
	var req InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	admin, err := parseAddress(req.Admin)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	engine, ok := h.authorizedEngine(c)
	if !ok {
		return
	}

	if err := engine.Initialize(admin); err != nil {
		ContractErrorResponse(c, err)
		return
	}

	h.recorder.Record(model.EventContractInit, 0, admin, nil)
	SuccessResponse(c, http.StatusOK, "合约初始化成功", nil)
}

// CreateProject 创建项目
func (h *ContractHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	owner, err := parseAddress(req.Owner)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	fundingGoal, err := parseAmount(req.FundingGoal)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	minInvestment, err := parseAmount(req.MinInvestment)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	engine, ok := h.authorizedEngine(c)
	if !ok {
		return
	}

	projectId, err := engine.CreateProject(
		owner, req.Name, req.Description,
		fundingGoal, minInvestment,
		req.ExpectedRoi, req.DurationMonths,
	)
	if err != nil {
		ContractErrorResponse(c, err)
		return
	}

	h.recorder.Record(model.EventProjectCreated, projectId, owner, fundingGoal)
	SuccessResponse(c, http.StatusCreated, "项目创建成功", gin.H{"project_id": projectId})
}

// Invest 投资项目
func (h *ContractHandler) Invest(c *gin.Context) {
	projectId, ok := parseProjectId(c)
	if !ok {
		return
	}

	var req InvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	investor, err := parseAddress(req.Investor)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	engine, ok := h.authorizedEngine(c)
	if !ok {
		return
	}

	if err := engine.Invest(investor, projectId, amount); err != nil {
		ContractErrorResponse(c, err)
		return
	}

	h.recorder.Record(model.EventInvestmentMade, projectId, investor, amount)
	SuccessResponse(c, http.StatusOK, "投资成功", nil)
}

// ClaimReturns 领取投资收益
func (h *ContractHandler) ClaimReturns(c *gin.Context) {
	projectId, ok := parseProjectId(c)
	if !ok {
		return
	}

	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	investor, err := parseAddress(req.Investor)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	engine, ok := h.authorizedEngine(c)
	if !ok {
		return
	}

	claimed, err := engine.ClaimReturns(investor, projectId)
	if err != nil {
		ContractErrorResponse(c, err)
		return
	}

	h.recorder.Record(model.EventReturnsClaimed, projectId, investor, claimed)
	SuccessResponse(c, http.StatusOK, "收益领取成功", gin.H{"amount": claimed.String()})
}

// PauseProject 暂停项目
func (h *ContractHandler) PauseProject(c *gin.Context) {
	projectId, ok := parseProjectId(c)
	if !ok {
		return
	}

	var req PauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	admin, err := parseAddress(req.Admin)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	engine, ok := h.authorizedEngine(c)
	if !ok {
		return
	}

	if err := engine.PauseProject(admin, projectId); err != nil {
		ContractErrorResponse(c, err)
		return
	}

	h.recorder.Record(model.EventProjectPaused, projectId, admin, nil)
	SuccessResponse(c, http.StatusOK, "项目已暂停", nil)
}

// WithdrawFunds 提取募资款
func (h *ContractHandler) WithdrawFunds(c *gin.Context) {
	projectId, ok := parseProjectId(c)
	if !ok {
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	owner, err := parseAddress(req.Owner)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	engine, ok := h.authorizedEngine(c)
	if !ok {
		return
	}

	amount, err := engine.WithdrawFunds(owner, projectId)
	if err != nil {
		ContractErrorResponse(c, err)
		return
	}

	h.recorder.Record(model.EventFundsWithdrawn, projectId, owner, amount)
	SuccessResponse(c, http.StatusOK, "资金提取成功", gin.H{"amount": amount.String()})
}

// GetProject 获取项目详情
func (h *ContractHandler) GetProject(c *gin.Context) {
	projectId, ok := parseProjectId(c)
	if !ok {
		return
	}

	project, err := h.engine.GetProject(projectId)
	if err != nil {
		ContractErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"project": project})
}

// GetProjectStats 获取项目统计信息
func (h *ContractHandler) GetProjectStats(c *gin.Context) {
	projectId, ok := parseProjectId(c)
	if !ok {
		return
	}

	stats, err := h.engine.GetProjectStats(projectId)
	if err != nil {
		ContractErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"stats": stats})
}

// GetInvestment 获取投资记录
func (h *ContractHandler) GetInvestment(c *gin.Context) {
	projectId, ok := parseProjectId(c)
	if !ok {
		return
	}

	investor, err := parseAddress(c.Param("address"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	investment, err := h.engine.GetInvestment(investor, projectId)
	if err != nil {
		ContractErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"investment": investment})
}

// GetUserProjects 获取用户创建的项目列表
func (h *ContractHandler) GetUserProjects(c *gin.Context) {
	user, err := parseAddress(c.Param("address"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.engine.GetUserProjects(user)
	if err != nil {
		ContractErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"project_ids": ids})
}

// GetUserInvestments 获取用户投资的项目列表
func (h *ContractHandler) GetUserInvestments(c *gin.Context) {
	user, err := parseAddress(c.Param("address"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.engine.GetUserInvestments(user)
	if err != nil {
		ContractErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"project_ids": ids})
}

// GetProjectCount 获取项目总数
func (h *ContractHandler) GetProjectCount(c *gin.Context) {
	count, err := h.engine.GetProjectCount()
	if err != nil {
		ContractErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"count": count})
}

// parseProjectId 解析路径中的项目ID
func parseProjectId(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return 0, false
	}
	return id, true
}
