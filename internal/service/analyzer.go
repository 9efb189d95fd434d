package service

import "context"

// PhotoAnalyzer 打卡照片外部分析客户端的边界接口。
// 以显式依赖注入到需要它的 Service，禁止通过包级全局访问。
// 分析结果只作为班次的附注信息，失败不阻断打卡。
type PhotoAnalyzer interface {
	Analyze(ctx context.Context, photoURL string) (string, error)
}

// NoopAnalyzer 默认实现：不做任何分析
type NoopAnalyzer struct{}

func (NoopAnalyzer) Analyze(_ context.Context, _ string) (string, error) {
	return "", nil
}
