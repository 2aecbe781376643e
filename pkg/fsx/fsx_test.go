package fsx_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/fsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIOFSReadsAndLists(t *testing.T) {
	reader := fsx.NewIOFS(fstest.MapFS{
		"templates/email_verification.html": {Data: []byte("<p>{{.Code}}</p>")},
		"templates/welcome.html":            {Data: []byte("hi")},
	})
	ctx := context.Background()

	data, err := reader.ReadFile(ctx, "templates/email_verification.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>{{.Code}}</p>", string(data))

	infos, err := reader.List(ctx, "templates")
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	ok, err := reader.Exists(ctx, "templates/missing.html")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = reader.ReadFile(ctx, "templates/missing.html")
	assert.True(t, errx.HasCode(err, fsx.CodeNotFound))
}
