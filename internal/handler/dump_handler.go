package handler

import (
	"fmt"

	"hdwallet-core/internal/handler/request"
	"hdwallet-core/internal/handler/response"
	"hdwallet-core/internal/service"
	"hdwallet-core/pkg/errno"
	"hdwallet-core/pkg/validator"

	"github.com/gin-gonic/gin"
)

type DumpHandler struct {
	svc service.DerivationService
}

func NewDumpHandler(svc service.DerivationService) *DumpHandler {
	return &DumpHandler{svc: svc}
}

// Dump 展开派生描述，返回所有节点
// POST /api/v1/dump
func (h *DumpHandler) Dump(c *gin.Context) {
	// 1. 绑定并校验参数
	var req request.DumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, fmt.Errorf("%s: %w", validator.GetErrorMsg(err), errno.ErrBind))
		return
	}

	// 2. 调用 Service
	result, err := h.svc.Dump(c.Request.Context(), toDumpRequest(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func toDumpRequest(req *request.DumpRequest) *service.DumpRequest {
	d := req.Derivation
	return &service.DumpRequest{
		Family:          req.Family,
		CardanoType:     req.CardanoType,
		Passphrase:      req.Passphrase,
		Seed:            req.Seed,
		Mnemonic:        req.Mnemonic,
		XPrivateKey:     req.XPrivateKey,
		XPublicKey:      req.XPublicKey,
		PrivateKey:      req.PrivateKey,
		PublicKey:       req.PublicKey,
		Strict:          req.Strict,
		SpendPrivateKey: req.SpendPrivateKey,
		ViewPrivateKey:  req.ViewPrivateKey,
		SpendPublicKey:  req.SpendPublicKey,
		Derivation: service.DerivationRequest{
			Type:     d.Type,
			Path:     d.Path,
			CoinType: d.CoinType,
			Account:  d.Account,
			Change:   d.Change,
			Role:     d.Role,
			Address:  d.Address,
			Minor:    d.Minor,
			Major:    d.Major,
		},
		Address: req.Address,
	}
}
