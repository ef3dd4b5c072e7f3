package handler

import (
	"github.com/gin-gonic/gin"

	appstock "github.com/xiebiao/library/internal/application/stock"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// StockHandler 库存HTTP处理器
type StockHandler struct {
	getStockUseCase    *appstock.GetStockUseCase
	adjustStockUseCase *appstock.AdjustStockUseCase
}

// NewStockHandler 创建库存处理器
func NewStockHandler(getStockUseCase *appstock.GetStockUseCase, adjustStockUseCase *appstock.AdjustStockUseCase) *StockHandler {
	return &StockHandler{
		getStockUseCase:    getStockUseCase,
		adjustStockUseCase: adjustStockUseCase,
	}
}

// GetStock 查询库存
// @Summary      查询库存
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        bookId path int true "图书ID"
// @Success      200 {object} response.Response{data=appstock.StockDTO}
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /api/v1/stocks/{bookId} [get]
func (h *StockHandler) GetStock(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	result, err := h.getStockUseCase.Execute(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AdjustStock 调整库存
// @Summary      调整库存
// @Description  delta为正入库、为负出库，数量不会低于0
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookId  path int                    true "图书ID"
// @Param        request body dto.AdjustStockRequest true "调整量"
// @Success      200 {object} response.Response{data=appstock.StockDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/stocks/{bookId} [put]
func (h *StockHandler) AdjustStock(c *gin.Context) {
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.adjustStockUseCase.Execute(c.Request.Context(), appstock.AdjustStockRequest{
		BookID:     bookID,
		Delta:      req.Delta,
		OperatorID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
