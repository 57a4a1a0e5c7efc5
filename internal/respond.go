package internal

import "github.com/gin-gonic/gin"

// Every endpoint answers {success, body?, error?}.

func ok(c *gin.Context, body any) {
	c.JSON(200, gin.H{"success": true, "body": body})
}

func fail(c *gin.Context, status int, err any) {
	switch e := err.(type) {
	case error:
		c.JSON(status, gin.H{"success": false, "error": e.Error()})
	case string:
		c.JSON(status, gin.H{"success": false, "error": e})
	default:
		c.JSON(status, gin.H{"success": false, "error": "unknown error"})
	}
}
