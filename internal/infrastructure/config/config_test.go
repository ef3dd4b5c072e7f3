package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoadFrom(t *testing.T) {
	t.Run("最小配置使用默认策略", func(t *testing.T) {
		dir := writeConfig(t, `
jwt:
  secret: test-secret
`)
		cfg, err := LoadFrom(dir)
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 5, cfg.Library.MaxActiveLoans)
		assert.Equal(t, 14*24*time.Hour, cfg.Library.LoanDuration)
		assert.Equal(t, int64(50), cfg.Library.LateFeePerDay)
		assert.Equal(t, "library.events", cfg.RabbitMQ.Exchange)
		assert.Equal(t, "audit_logs", cfg.Mongo.AuditColl)
	})

	t.Run("环境变量覆盖嵌套字段", func(t *testing.T) {
		dir := writeConfig(t, `
jwt:
  secret: test-secret
library:
  max_active_loans: 3
`)
		t.Setenv("LIBRARY_LIBRARY_MAX_ACTIVE_LOANS", "7")

		cfg, err := LoadFrom(dir)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Library.MaxActiveLoans)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadFrom(t.TempDir())
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080, Mode: "debug"},
			JWT:     JWTConfig{Secret: "s"},
			Library: LibraryConfig{MaxActiveLoans: 5, LoanDuration: time.Hour},
		}
	}

	require.NoError(t, validate(valid()))

	cases := map[string]func(*Config){
		"端口非法":       func(c *Config) { c.Server.Port = 0 },
		"JWT密钥为空":    func(c *Config) { c.JWT.Secret = "" },
		"生产环境默认密钥":   func(c *Config) { c.JWT.Secret = "your-secret-key-change-in-production"; c.Server.Mode = "release" },
		"在借上限为0":     func(c *Config) { c.Library.MaxActiveLoans = 0 },
		"借期为0":       func(c *Config) { c.Library.LoanDuration = 0 },
		"滞纳金为负":      func(c *Config) { c.Library.LateFeePerDay = -1 },
		"追踪缺少endpoint": func(c *Config) { c.Tracing.Enabled = true },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, validate(cfg))
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "localhost", Port: 3306,
		DBName: "library", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(localhost:3306)/library?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
}
