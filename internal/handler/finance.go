package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// financeProviderURL points customers at the external financing partner.
const financeProviderURL = "https://www.klarna.com/uk/business/products/financing/"

// FinanceInfo tells a customer how to finance a purchase. Financing itself is
// handled entirely by the external provider.
func FinanceInfo(c echo.Context) error {
	optIn, _ := strconv.ParseBool(c.QueryParam("opt_in"))
	if !optIn {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "You have not opted in for financing.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Please check out with our financing provider for more information.",
		"provider": financeProviderURL,
	})
}
