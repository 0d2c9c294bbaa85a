package admin

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TestMailer interface {
	SendTestEmail(ctx context.Context) error
}

// SendTestEmail déclenche l'e-mail de test vers l'adresse de la boutique.
func SendTestEmail(m TestMailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.SendTestEmail(c.Request.Context()); err != nil {
			log.Printf("❌ E-mail de test en échec (admin %s) : %v", c.GetString("admin"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		log.Printf("📤 E-mail de test envoyé (admin %s)", c.GetString("admin"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
