package service

import "context"

type DerivationService interface {
	// Dump 按请求构造根节点，并展开派生描述中的所有区间
	// 返回的节点按索引顺序排列 (最后一段变化最快)
	Dump(ctx context.Context, req *DumpRequest) (*DumpResult, error)
}

var _ DerivationService = (*HDService)(nil)
