package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProducerDefaults(t *testing.T) {
	t.Run("空流名与非法上限回退默认值", func(t *testing.T) {
		p := NewProducer(nil, "", 0)
		assert.Equal(t, StreamGenerations, p.stream)
		assert.Equal(t, int64(100000), p.maxLen)
	})

	t.Run("显式配置原样生效", func(t *testing.T) {
		p := NewProducer(nil, "plotforge:audit", 500)
		assert.Equal(t, Stream("plotforge:audit"), p.stream)
		assert.Equal(t, int64(500), p.maxLen)
	})
}
