package dsn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/config"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/dsn"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		db   config.DB
		want string
	}{
		{
			name: "mysql",
			db: config.DB{
				GormEngine: config.EngineMySQL, Host: "db", Port: 3306, User: "admin", Password: "secret",
				Name: "access", Extras: "parseTime=True",
			},
			want: "admin:secret@tcp(db:3306)/access?parseTime=True",
		},
		{
			name: "postgres",
			db: config.DB{
				GormEngine: config.EnginePostgres, Host: "db", Port: 5432, User: "admin", Password: "se cret",
				Name: "access", Extras: "sslmode=disable",
			},
			want: "host=db port=5432 user=admin password='se cret' dbname=access sslmode=disable",
		},
		{
			name: "sqlite",
			db:   config.DB{GormEngine: config.EngineSQLite, Name: "access.db"},
			want: "access.db",
		},
		{
			name: "sqlite with pragma",
			db:   config.DB{GormEngine: config.EngineSQLite, Name: "access.db", Extras: "_pragma=foreign_keys(1)"},
			want: "access.db?_pragma=foreign_keys(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dsn.Create(tt.db)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateUnsupported(t *testing.T) {
	_, err := dsn.Create(config.DB{GormEngine: "oracle"})
	assert.ErrorIs(t, err, dsn.ErrUnsupportedEngine)
}
