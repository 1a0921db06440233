package public

import (
	handlershared "github.com/Memoriestore01/Memoriestore-sub001/internal/http/handlers/shared"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"github.com/gin-gonic/gin"
)

func currentAccount(c *gin.Context) (*models.Account, bool) {
	return handlershared.CurrentAccount(c)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	handlershared.RespondBadRequest(c, err)
}
