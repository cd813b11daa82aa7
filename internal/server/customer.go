package server

import (
	"net/http"
	"strings"
	"time"

	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/gin-gonic/gin"
)

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		Offset int    `form:"offset"`
		Limit  int    `form:"limit"`
		Sort   string `form:"sort"`
		Search string `form:"q"`
		From   string `form:"from"`
		To     string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sort, ok := customerdomain.ParseSort(strings.TrimSpace(query.Sort))
	if !ok {
		AbortWithError(c, newValidationError("sort", "invalid_sort", "sort must be one of name-asc, name-desc, latest"))
		return
	}

	createdFrom, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}

	createdTo, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		Offset:      query.Offset,
		Limit:       query.Limit,
		Sort:        sort,
		Search:      query.Search,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp.Customers == nil {
		resp.Customers = []customerdomain.Customer{}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListCustomerCreatedAt(c *gin.Context) {
	stamps, err := s.customerSvc.ListCreatedAt(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if stamps == nil {
		stamps = []time.Time{}
	}

	c.JSON(http.StatusOK, gin.H{"data": stamps})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), customerdomain.UpdateCustomerRequest{
		ID:    strings.TrimSpace(c.Param("id")),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.customerSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
