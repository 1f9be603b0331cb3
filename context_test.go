package tokenswap

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// changing the info, should modify the logger
	ctx2 := WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))

	// no invoker outside of the runtime
	assert.Nil(t, GetInvoker(ctx))
}

func TestAccountIter(t *testing.T) {
	accounts := []*AccountInfo{{Lamports: 1}, {Lamports: 2}}
	it := NewAccountIter(accounts)

	a, err := it.Next()
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), a.Lamports)
	assert.Len(t, it.Remaining(), 1)

	_, err = it.Next()
	assert.NoError(t, err)
	_, err = it.Next()
	assert.Error(t, err)
}
