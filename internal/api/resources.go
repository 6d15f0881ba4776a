package api

import (
	"net/http"

	"github.com/msrikanth38/90s-jar/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listInventory(c *gin.Context) {
	items, err := h.svc.Catalog.ListInventory(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list inventory", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) saveInventoryItem(c *gin.Context) {
	var req service.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	id, err := h.svc.Catalog.SaveInventoryItem(c.Request.Context(), &req)
	if err != nil {
		h.serverError(c, "Failed to save inventory item", err)
		return
	}
	created(c, id)
}

func (h *Handler) deleteInventoryItem(c *gin.Context) {
	if err := h.svc.Catalog.DeleteInventoryItem(c.Request.Context(), c.Param("id")); err != nil {
		h.serverError(c, "Failed to delete inventory item", err)
		return
	}
	ok(c)
}

// adjustStock applies a relative change; the result may go negative
func (h *Handler) adjustStock(c *gin.Context) {
	var req service.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.svc.Catalog.AdjustStock(c.Request.Context(), c.Param("id"), *req.Change); err != nil {
		h.serverError(c, "Failed to adjust stock", err)
		return
	}
	ok(c)
}

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.svc.Customers.ListCustomers(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list customers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) saveCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	id, err := h.svc.Customers.SaveCustomer(c.Request.Context(), &req)
	if err != nil {
		h.serverError(c, "Failed to save customer", err)
		return
	}
	created(c, id)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	if err := h.svc.Customers.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		h.serverError(c, "Failed to delete customer", err)
		return
	}
	ok(c)
}

func (h *Handler) listCombos(c *gin.Context) {
	combos, err := h.svc.Catalog.ListCombos(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list combos", err)
		return
	}
	c.JSON(http.StatusOK, combos)
}

func (h *Handler) saveCombo(c *gin.Context) {
	var req service.ComboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	id, err := h.svc.Catalog.SaveCombo(c.Request.Context(), &req)
	if err != nil {
		h.serverError(c, "Failed to save combo", err)
		return
	}
	created(c, id)
}

func (h *Handler) deleteCombo(c *gin.Context) {
	if err := h.svc.Catalog.DeleteCombo(c.Request.Context(), c.Param("id")); err != nil {
		h.serverError(c, "Failed to delete combo", err)
		return
	}
	ok(c)
}

func (h *Handler) listRecipes(c *gin.Context) {
	recipes, err := h.svc.Catalog.ListRecipes(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list recipes", err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *Handler) saveRecipe(c *gin.Context) {
	var req service.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	id, err := h.svc.Catalog.SaveRecipe(c.Request.Context(), &req)
	if err != nil {
		h.serverError(c, "Failed to save recipe", err)
		return
	}
	created(c, id)
}

func (h *Handler) deleteRecipe(c *gin.Context) {
	if err := h.svc.Catalog.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		h.serverError(c, "Failed to delete recipe", err)
		return
	}
	ok(c)
}

func (h *Handler) listTransactions(c *gin.Context) {
	txns, err := h.svc.Finance.ListTransactions(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list transactions", err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *Handler) saveTransaction(c *gin.Context) {
	var req service.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	id, err := h.svc.Finance.SaveTransaction(c.Request.Context(), &req)
	if err != nil {
		h.serverError(c, "Failed to save transaction", err)
		return
	}
	created(c, id)
}

func (h *Handler) deleteTransaction(c *gin.Context) {
	if err := h.svc.Finance.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		h.serverError(c, "Failed to delete transaction", err)
		return
	}
	ok(c)
}

func (h *Handler) listOffers(c *gin.Context) {
	offers, err := h.svc.Finance.ListOffers(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list offers", err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *Handler) saveOffer(c *gin.Context) {
	var req service.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	id, err := h.svc.Finance.SaveOffer(c.Request.Context(), &req)
	if err != nil {
		h.serverError(c, "Failed to save offer", err)
		return
	}
	created(c, id)
}

func (h *Handler) deleteOffer(c *gin.Context) {
	if err := h.svc.Finance.DeleteOffer(c.Request.Context(), c.Param("id")); err != nil {
		h.serverError(c, "Failed to delete offer", err)
		return
	}
	ok(c)
}
