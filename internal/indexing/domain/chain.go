package domain

import "context"

// IndexContext 单次组装运行的上下文：构建器加自由元数据，按引用穿过整条链，不持久化。
type IndexContext struct {
	ProductID int64
	Builder   *ProductDocumentBuilder
	Metadata  map[string]any
}

// NewIndexContext 创建组装上下文
func NewIndexContext(productID int64) *IndexContext {
	return &IndexContext{
		ProductID: productID,
		Builder:   NewProductDocumentBuilder(productID),
		Metadata:  make(map[string]any),
	}
}

// Outcome 阶段结果。Absent 表示该商品应从索引移除，是商品被排除的唯一通道。
type Outcome struct {
	Absent bool
	Reason string
}

// Forwarded 正常透传结果
func Forwarded() Outcome { return Outcome{} }

// Absent 终止整条链并标记移除
func Absent(reason string) Outcome { return Outcome{Absent: true, Reason: reason} }

// Next 调用链中的下一个阶段
type Next func(ctx context.Context) (Outcome, error)

// Stage 组装链中的一个阶段。实现方可以在调用 next 之前发起后台读取，
// 在 next 返回后等待读取结果再写入构建器，从而让自身 I/O 与下游阶段并行。
type Stage interface {
	Name() string
	Handle(ctx context.Context, ic *IndexContext, next Next) (Outcome, error)
}

// Chain 按注册顺序执行的阶段链。顺序固定、不可按调用配置。
type Chain struct {
	stages []Stage
}

// NewChain 按显式顺序注册阶段
func NewChain(stages ...Stage) *Chain {
	return &Chain{stages: stages}
}

// Run 执行整条链
func (c *Chain) Run(ctx context.Context, ic *IndexContext) (Outcome, error) {
	return c.run(ctx, ic, 0)
}

func (c *Chain) run(ctx context.Context, ic *IndexContext, i int) (Outcome, error) {
	if i >= len(c.stages) {
		return Forwarded(), nil
	}
	next := func(ctx context.Context) (Outcome, error) {
		return c.run(ctx, ic, i+1)
	}
	return c.stages[i].Handle(ctx, ic, next)
}

// StageNames 返回注册顺序的阶段名，用于日志与测试
func (c *Chain) StageNames() []string {
	names := make([]string, 0, len(c.stages))
	for _, s := range c.stages {
		names = append(names, s.Name())
	}
	return names
}
