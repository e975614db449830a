package main

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGinMode(t *testing.T) {
	assert.Equal(t, gin.ReleaseMode, ginMode(false))
	assert.Equal(t, gin.DebugMode, ginMode(true))
}
