package httpserver

import (
	"net/http"

	"github.com/arjun2k01/esports-cart/internal/domain"
	ordersvc "github.com/arjun2k01/esports-cart/internal/service/order"
	"github.com/gin-gonic/gin"
)

type payRequest struct {
	PaymentResult *domain.PaymentResult `json:"paymentResult"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func placeOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ordersvc.PlaceInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		o, err := orders.Place(c.Request.Context(), actorFrom(c), in)
		if err != nil {
			respondError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func getOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
		if err != nil {
			respondError(c, err, 0)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func listMyOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListMine(c.Request.Context(), actorFrom(c))
		if err != nil {
			respondError(c, err, 0)
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		c.JSON(http.StatusOK, list)
	}
}

func listAllOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListAll(c.Request.Context(), actorFrom(c))
		if err != nil {
			respondError(c, err, 0)
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		c.JSON(http.StatusOK, list)
	}
}

func payOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in payRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&in); err != nil {
				badRequest(c, "invalid request body")
				return
			}
		}
		o, err := orders.Pay(c.Request.Context(), actorFrom(c), c.Param("id"), in.PaymentResult)
		if err != nil {
			respondError(c, err, 0)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func shipOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ordersvc.ShipInput
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&in); err != nil {
				badRequest(c, "invalid request body")
				return
			}
		}
		o, err := orders.Ship(c.Request.Context(), actorFrom(c), c.Param("id"), in)
		if err != nil {
			respondError(c, err, 0)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func deliverOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.Deliver(c.Request.Context(), actorFrom(c), c.Param("id"))
		if err != nil {
			respondError(c, err, 0)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func cancelOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cancelRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&in); err != nil {
				badRequest(c, "invalid request body")
				return
			}
		}
		o, err := orders.Cancel(c.Request.Context(), actorFrom(c), c.Param("id"), in.Reason)
		if err != nil {
			respondError(c, err, 0)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
