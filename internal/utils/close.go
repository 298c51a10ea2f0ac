package utils

import (
	"io"

	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
)

// MustClose closes c and logs any error.
func MustClose(c io.Closer, log logger.Logger) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.Error(err))
	}
}
