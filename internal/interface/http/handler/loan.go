package handler

import (
	"github.com/gin-gonic/gin"

	apploan "github.com/xiebiao/library/internal/application/loan"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// LoanHandler 借阅HTTP处理器，接口仅对馆员和管理员开放
type LoanHandler struct {
	createUseCase *apploan.CreateLoanUseCase
	returnUseCase *apploan.ReturnLoanUseCase
	updateUseCase *apploan.UpdateLoanUseCase
	deleteUseCase *apploan.DeleteLoanUseCase
	queryUseCase  *apploan.QueryLoanUseCase
}

// NewLoanHandler 创建借阅处理器
func NewLoanHandler(
	createUseCase *apploan.CreateLoanUseCase,
	returnUseCase *apploan.ReturnLoanUseCase,
	updateUseCase *apploan.UpdateLoanUseCase,
	deleteUseCase *apploan.DeleteLoanUseCase,
	queryUseCase *apploan.QueryLoanUseCase,
) *LoanHandler {
	return &LoanHandler{
		createUseCase: createUseCase,
		returnUseCase: returnUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		queryUseCase:  queryUseCase,
	}
}

// CreateLoan 办理借阅
// @Summary      办理借阅
// @Description  检查在借上限和库存后借出，读者有到书预约时一并完成
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateLoanRequest true "读者和图书"
// @Success      200 {object} response.Response{data=apploan.CreateLoanResponse}
// @Failure      400 {object} response.Response "超过在借上限或无可借库存"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/loans [post]
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), apploan.CreateLoanRequest{
		UserID:     req.UserID,
		BookID:     req.BookID,
		OperatorID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ReturnLoan 归还
// @Summary      归还图书
// @Description  计算滞纳金、恢复库存，并通知排队第一位的预约读者
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=apploan.ReturnLoanResponse}
// @Failure      404 {object} response.Response "借阅不存在或已归还"
// @Router       /api/v1/loans/{id}/return [put]
func (h *LoanHandler) ReturnLoan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.returnUseCase.Execute(c.Request.Context(), apploan.ReturnLoanRequest{
		LoanID:     id,
		OperatorID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetLoan 借阅详情
// @Summary      借阅详情
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=apploan.LoanDTO}
// @Failure      404 {object} response.Response "借阅不存在"
// @Router       /api/v1/loans/{id} [get]
func (h *LoanHandler) GetLoan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.queryUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListLoans 借阅列表
// @Summary      借阅列表
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        user_id     query int  false "读者ID"
// @Param        book_id     query int  false "图书ID"
// @Param        active_only query bool false "只看未归还"
// @Param        page        query int  false "页码"
// @Param        page_size   query int  false "每页数量"
// @Success      200 {object} response.Response{data=apploan.ListLoansResponse}
// @Router       /api/v1/loans [get]
func (h *LoanHandler) ListLoans(c *gin.Context) {
	var req dto.ListLoansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.queryUseCase.List(c.Request.Context(), apploan.ListLoansRequest{
		UserID:     req.UserID,
		BookID:     req.BookID,
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateLoan 修改应还日期
// @Summary      修改应还日期
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "借阅ID"
// @Param        request body dto.UpdateLoanRequest true "新的应还日期"
// @Success      200 {object} response.Response{data=apploan.LoanDTO}
// @Failure      404 {object} response.Response "借阅不存在或已归还"
// @Router       /api/v1/loans/{id} [put]
func (h *LoanHandler) UpdateLoan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), apploan.UpdateLoanRequest{
		LoanID:     id,
		DueDate:    req.DueDate,
		OperatorID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteLoan 删除借阅记录
// @Summary      删除借阅记录
// @Description  未归还的借阅删除时恢复库存
// @Tags         借阅
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "借阅不存在"
// @Router       /api/v1/loans/{id} [delete]
func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.deleteUseCase.Execute(c.Request.Context(), apploan.DeleteLoanRequest{
		LoanID:     id,
		OperatorID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Loan deleted successfully"})
}
