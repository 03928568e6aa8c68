package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/dsget/internal/core/domain"
)

func TestTransferStatus_Fetched(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.TransferStatus
		fetched bool
	}{
		{"Downloaded", domain.TransferDownloaded, true},
		{"Resumed", domain.TransferResumed, true},
		{"Cached", domain.TransferCached, false},
		{"Failed", domain.TransferFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fetched, tt.status.Fetched())
		})
	}
}
