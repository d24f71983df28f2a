package contract

import (
	"math/big"
	"sync"

	"github.com/blues/agrocoin/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

// 收益按基点计算，10000基点 = 100%
const roiDenominator = 10000

// 一个月按30天折算
const secondsPerMonth = 30 * 24 * 3600

// Engine 合约引擎，实现项目募资的完整状态机。
// 每个操作是一次完整事务：校验、授权全部通过后变更才落盘，
// 任何失败路径对存储无任何影响。互斥锁保证操作串行执行。
type Engine struct {
	mu    *sync.Mutex
	store Store
	clock Clock
	auth  Authorizer
}

// NewEngine 创建合约引擎
func NewEngine(store Store, clock Clock, auth Authorizer) *Engine {
	return &Engine{
		mu:    &sync.Mutex{},
		store: store,
		clock: clock,
		auth:  auth,
	}
}

// WithAuthorizer 返回共享同一状态、使用指定授权器的引擎视图，
// 用于按请求注入签名验证结果
func (e *Engine) WithAuthorizer(auth Authorizer) *Engine {
	return &Engine{
		mu:    e.mu,
		store: e.store,
		clock: e.clock,
		auth:  auth,
	}
}

// requireAuth 调用方授权检查
func (e *Engine) requireAuth(principal common.Address) error {
	if !e.auth.Authorize(principal) {
		return errf(CodeUnauthorized, "principal %s not authorized", principal.Hex())
	}
	return nil
}

// Initialize 初始化合约，设置管理员并将项目计数器清零。
// 重复初始化直接失败，绝不静默覆盖。
func (e *Engine) Initialize(admin common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cs := newChangeset(e.store)

	exists, err := cs.has(keyAdmin)
	if err != nil {
		return storageErr(err)
	}
	if exists {
		return errf(CodeAlreadyInitialized, "contract already initialized")
	}

	if err := e.requireAuth(admin); err != nil {
		return err
	}

	if err := cs.setJSON(keyAdmin, admin); err != nil {
		return storageErr(err)
	}
	if err := cs.setJSON(keyProjectCount, uint64(0)); err != nil {
		return storageErr(err)
	}
	if err := cs.commit(); err != nil {
		return storageErr(err)
	}

	logger.Info("Contract initialized with admin: %s", admin.Hex())
	return nil
}

// CreateProject 创建项目，返回新分配的项目ID。
// ID由全局计数器递增分配，从1开始，失败的调用不消耗ID。
func (e *Engine) CreateProject(
	owner common.Address,
	name string,
	description string,
	fundingGoal *big.Int,
	minInvestment *big.Int,
	expectedRoi uint32,
	durationMonths uint32,
) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAuth(owner); err != nil {
		return 0, err
	}

	if fundingGoal == nil || fundingGoal.Sign() <= 0 {
		return 0, errf(CodeInvalidParameter, "funding goal must be positive")
	}
	if minInvestment == nil || minInvestment.Sign() <= 0 || minInvestment.Cmp(fundingGoal) > 0 {
		return 0, errf(CodeInvalidParameter, "invalid minimum investment")
	}
	if expectedRoi > roiDenominator {
		return 0, errf(CodeInvalidParameter, "expected ROI exceeds %d basis points", roiDenominator)
	}
	if durationMonths == 0 || durationMonths > 60 {
		return 0, errf(CodeInvalidParameter, "duration must be between 1 and 60 months")
	}

	cs := newChangeset(e.store)

	var count uint64
	if _, err := cs.getJSON(keyProjectCount, &count); err != nil {
		return 0, storageErr(err)
	}
	count++

	project := Project{
		Id:             count,
		Owner:          owner,
		Name:           name,
		Description:    description,
		FundingGoal:    new(big.Int).Set(fundingGoal),
		CurrentFunding: big.NewInt(0),
		MinInvestment:  new(big.Int).Set(minInvestment),
		ExpectedRoi:    expectedRoi,
		DurationMonths: durationMonths,
		IsActive:       true,
		IsFunded:       false,
		CreatedAt:      e.clock.Now(),
	}

	if err := cs.setJSON(projectKey(count), &project); err != nil {
		return 0, storageErr(err)
	}
	if err := cs.setJSON(keyProjectCount, count); err != nil {
		return 0, storageErr(err)
	}

	// 项目ID唯一，创建者索引无需去重
	if err := e.appendIndex(cs, userProjectsKey(owner), count); err != nil {
		return 0, err
	}

	if err := cs.commit(); err != nil {
		return 0, storageErr(err)
	}

	logger.Info("Project created: %d by %s", count, owner.Hex())
	return count, nil
}

// Invest 向项目投资。同一投资人对同一项目的多次投资聚合到一条记录，
// 首次投资的时间戳保留不变。项目更新、投资记录、用户索引作为同一事务提交。
func (e *Engine) Invest(investor common.Address, projectId uint64, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAuth(investor); err != nil {
		return err
	}

	if amount == nil || amount.Sign() <= 0 {
		return errf(CodeInvalidParameter, "investment amount must be positive")
	}

	cs := newChangeset(e.store)

	project, err := e.loadProject(cs, projectId)
	if err != nil {
		return err
	}

	// 校验顺序固定：状态 -> 单笔下限 -> 募资上限，全部针对更新前的项目
	if !project.IsActive {
		return errf(CodeInactiveProject, "project %d is not active", projectId)
	}
	if project.IsFunded {
		return errf(CodeAlreadyFunded, "project %d already funded", projectId)
	}
	// 单笔下限针对每次投资，已有持仓的追加投资同样适用
	if amount.Cmp(project.MinInvestment) < 0 {
		return errf(CodeBelowMinimum, "amount below minimum investment")
	}
	newFunding := new(big.Int).Add(project.CurrentFunding, amount)
	if newFunding.Cmp(project.FundingGoal) > 0 {
		return errf(CodeExceedsGoal, "investment exceeds funding goal")
	}

	project.CurrentFunding = newFunding
	if project.CurrentFunding.Cmp(project.FundingGoal) >= 0 {
		// 达标即锁定，之后不再回退
		project.IsFunded = true
	}
	if err := cs.setJSON(projectKey(projectId), project); err != nil {
		return storageErr(err)
	}

	invKey := investmentKey(investor, projectId)
	var investment Investment
	found, err := cs.getJSON(invKey, &investment)
	if err != nil {
		return storageErr(err)
	}
	if found {
		// 追加投资只累加金额，时间戳和已领收益不动
		investment.Amount = new(big.Int).Add(investment.Amount, amount)
	} else {
		investment = Investment{
			Investor:       investor,
			ProjectId:      projectId,
			Amount:         new(big.Int).Set(amount),
			Timestamp:      e.clock.Now(),
			ClaimedReturns: big.NewInt(0),
		}
	}
	if err := cs.setJSON(invKey, &investment); err != nil {
		return storageErr(err)
	}

	if !found {
		if err := e.appendIndex(cs, userInvestmentsKey(investor), projectId); err != nil {
			return err
		}
	}

	if err := cs.commit(); err != nil {
		return storageErr(err)
	}

	logger.Info("Investment: %s invested %s in project %d", investor.Hex(), amount.String(), projectId)
	return nil
}

// ClaimReturns 领取投资收益，返回本次领取的金额。
// 总收益 = 累计投资额 * 预期收益率 / 10000（向下取整），
// 每次领取自上次以来新增的可领部分；到期判断始终以首次投资时间为锚点。
func (e *Engine) ClaimReturns(investor common.Address, projectId uint64) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAuth(investor); err != nil {
		return nil, err
	}

	cs := newChangeset(e.store)

	project, err := e.loadProject(cs, projectId)
	if err != nil {
		return nil, err
	}
	if !project.IsFunded {
		return nil, errf(CodeNotYetFunded, "project %d not yet funded", projectId)
	}

	invKey := investmentKey(investor, projectId)
	var investment Investment
	found, err := cs.getJSON(invKey, &investment)
	if err != nil {
		return nil, storageErr(err)
	}
	if !found {
		return nil, errf(CodeNotFound, "investment not found")
	}

	totalReturns := new(big.Int).Mul(investment.Amount, big.NewInt(int64(project.ExpectedRoi)))
	totalReturns.Quo(totalReturns, big.NewInt(roiDenominator))
	available := new(big.Int).Sub(totalReturns, investment.ClaimedReturns)

	if available.Sign() <= 0 {
		return nil, errf(CodeNoReturnsAvailable, "no returns available")
	}

	now := e.clock.Now()
	var elapsed uint64
	if now > investment.Timestamp {
		elapsed = now - investment.Timestamp
	}
	monthsElapsed := elapsed / secondsPerMonth
	if monthsElapsed < uint64(project.DurationMonths) {
		return nil, errf(CodeDurationNotComplete, "project duration not completed")
	}

	investment.ClaimedReturns = new(big.Int).Add(investment.ClaimedReturns, available)
	if err := cs.setJSON(invKey, &investment); err != nil {
		return nil, storageErr(err)
	}
	if err := cs.commit(); err != nil {
		return nil, storageErr(err)
	}

	logger.Info("Returns claimed: %s claimed %s from project %d", investor.Hex(), available.String(), projectId)
	return available, nil
}

// PauseProject 管理员暂停项目，只清除is_active，不影响募资状态。
// 本接口不提供恢复操作。
func (e *Engine) PauseProject(admin common.Address, projectId uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAuth(admin); err != nil {
		return err
	}

	cs := newChangeset(e.store)

	var storedAdmin common.Address
	found, err := cs.getJSON(keyAdmin, &storedAdmin)
	if err != nil {
		return storageErr(err)
	}
	if !found {
		return errf(CodeNotInitialized, "contract not initialized")
	}
	if admin != storedAdmin {
		return errf(CodeUnauthorized, "only admin can pause projects")
	}

	project, err := e.loadProject(cs, projectId)
	if err != nil {
		return err
	}

	project.IsActive = false
	if err := cs.setJSON(projectKey(projectId), project); err != nil {
		return storageErr(err)
	}
	if err := cs.commit(); err != nil {
		return storageErr(err)
	}

	logger.Info("Project %d paused by admin", projectId)
	return nil
}

// WithdrawFunds 项目方提取募资款，返回可提取金额。
// 提取后置funds_withdrawn标记，重复提取失败。
func (e *Engine) WithdrawFunds(owner common.Address, projectId uint64) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAuth(owner); err != nil {
		return nil, err
	}

	cs := newChangeset(e.store)

	project, err := e.loadProject(cs, projectId)
	if err != nil {
		return nil, err
	}
	if project.Owner != owner {
		return nil, errf(CodeUnauthorized, "only project owner can withdraw")
	}
	if !project.IsFunded {
		return nil, errf(CodeNotYetFunded, "project %d not funded yet", projectId)
	}
	if project.FundsWithdrawn {
		return nil, errf(CodeAlreadyWithdrawn, "funds already withdrawn")
	}

	project.FundsWithdrawn = true
	if err := cs.setJSON(projectKey(projectId), project); err != nil {
		return nil, storageErr(err)
	}
	if err := cs.commit(); err != nil {
		return nil, storageErr(err)
	}

	amount := new(big.Int).Set(project.CurrentFunding)
	logger.Info("Funds withdrawn: %s withdrew %s from project %d", owner.Hex(), amount.String(), projectId)
	return amount, nil
}

// GetProject 获取项目详情
func (e *Engine) GetProject(projectId uint64) (*Project, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.loadProject(newChangeset(e.store), projectId)
}

// GetProjectStats 获取项目统计信息
func (e *Engine) GetProjectStats(projectId uint64) (*ProjectStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	project, err := e.loadProject(newChangeset(e.store), projectId)
	if err != nil {
		return nil, err
	}

	var fundingPercentage uint32
	if project.FundingGoal.Sign() > 0 {
		pct := new(big.Int).Mul(project.CurrentFunding, big.NewInt(roiDenominator))
		pct.Quo(pct, project.FundingGoal)
		fundingPercentage = uint32(pct.Uint64())
	}

	return &ProjectStats{
		TotalInvestors:    1, // 占位值，投资人计数待实现
		FundingPercentage: fundingPercentage,
		DaysRemaining:     project.DurationMonths * 30,
	}, nil
}

// GetInvestment 获取投资记录
func (e *Engine) GetInvestment(investor common.Address, projectId uint64) (*Investment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cs := newChangeset(e.store)
	var investment Investment
	found, err := cs.getJSON(investmentKey(investor, projectId), &investment)
	if err != nil {
		return nil, storageErr(err)
	}
	if !found {
		return nil, errf(CodeNotFound, "investment not found")
	}
	return &investment, nil
}

// GetUserProjects 获取用户创建的项目ID列表，无记录返回空列表
func (e *Engine) GetUserProjects(user common.Address) ([]uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.loadIndex(newChangeset(e.store), userProjectsKey(user))
}

// GetUserInvestments 获取用户投资过的项目ID列表，无记录返回空列表
func (e *Engine) GetUserInvestments(user common.Address) ([]uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.loadIndex(newChangeset(e.store), userInvestmentsKey(user))
}

// GetProjectCount 获取项目总数
func (e *Engine) GetProjectCount() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cs := newChangeset(e.store)
	var count uint64
	if _, err := cs.getJSON(keyProjectCount, &count); err != nil {
		return 0, storageErr(err)
	}
	return count, nil
}

// loadProject 加载项目，不存在返回NotFound
func (e *Engine) loadProject(cs *changeset, projectId uint64) (*Project, error) {
	var project Project
	found, err := cs.getJSON(projectKey(projectId), &project)
	if err != nil {
		return nil, storageErr(err)
	}
	if !found {
		return nil, errf(CodeNotFound, "project %d not found", projectId)
	}
	return &project, nil
}

// loadIndex 加载用户索引，缺失时视为空列表
func (e *Engine) loadIndex(cs *changeset, key string) ([]uint64, error) {
	ids := []uint64{}
	if _, err := cs.getJSON(key, &ids); err != nil {
		return nil, storageErr(err)
	}
	return ids, nil
}

// appendIndex 向用户索引追加项目ID，先查重再追加，索引只增不减
func (e *Engine) appendIndex(cs *changeset, key string, projectId uint64) error {
	ids, err := e.loadIndex(cs, key)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == projectId {
			return nil
		}
	}
	ids = append(ids, projectId)
	if err := cs.setJSON(key, ids); err != nil {
		return storageErr(err)
	}
	return nil
}
