package database

import (
	"net/url"
	"testing"

	"github.com/klokku/timesheet/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	cfg := config.Database{Host: "db", Port: 5433, User: "ts", Pass: "p@ss'word", Name: "timesheet", Schema: "timesheet"}

	raw := URL(cfg)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db:5433", u.Host)
	assert.Equal(t, "/timesheet", u.Path)
	pass, _ := u.User.Password()
	assert.Equal(t, "p@ss'word", pass)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "timesheet", u.Query().Get("search_path"))
}

func TestURL_WithoutSchema(t *testing.T) {
	u, err := url.Parse(URL(config.Database{Host: "localhost", Port: 5432, User: "u", Name: "n"}))
	require.NoError(t, err)
	assert.False(t, u.Query().Has("search_path"))
}

func TestFindMigrationsPath(t *testing.T) {
	path, err := findMigrationsPath()
	require.NoError(t, err)
	assert.DirExists(t, path)
	assert.FileExists(t, path+"/000001_create_event.up.sql")
}
