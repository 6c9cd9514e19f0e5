package benchmark

import (
	"context"
	"testing"

	"github.com/samber/do/v2"
	"go.uber.org/dig"
	"go.uber.org/fx"

	"github.com/thimble-di/thimble"
)

func BenchmarkResolve_Singleton_Thimble(b *testing.B) {
	c := thimble.New()
	_ = thimble.ProvideValue(c.Root(), &Config{Host: "localhost", Port: 8080})
	ctx := context.Background()
	_, _ = thimble.Resolve[*Config](ctx, c.Root())

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = thimble.Resolve[*Config](ctx, c.Root())
	}
}

func BenchmarkResolve_Singleton_Do(b *testing.B) {
	injector := do.New()
	do.ProvideValue(injector, &Config{Host: "localhost", Port: 8080})
	_ = do.MustInvoke[*Config](injector)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = do.MustInvoke[*Config](injector)
	}
}

func BenchmarkResolve_Singleton_Dig(b *testing.B) {
	c := dig.New()
	_ = c.Provide(func() *Config { return &Config{Host: "localhost", Port: 8080} })
	_ = c.Invoke(func(*Config) {})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.Invoke(func(*Config) {})
	}
}

func BenchmarkResolve_Singleton_Fx(b *testing.B) {
	var cfg *Config
	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() *Config { return &Config{Host: "localhost", Port: 8080} }),
		fx.Populate(&cfg),
	)
	ctx := context.Background()
	_ = app.Start(ctx)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = cfg
	}
	_ = app.Stop(ctx)
}

func BenchmarkResolve_Chain_Thimble(b *testing.B) {
	c := thimble.New()
	provideChainThimble(c)
	ctx := context.Background()
	_, _ = thimble.Resolve[*Service](ctx, c.Root())

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = thimble.Resolve[*Service](ctx, c.Root())
	}
}

func BenchmarkResolve_Chain_Do(b *testing.B) {
	injector := do.New()
	do.ProvideValue(injector, &Config{Host: "localhost", Port: 8080})
	do.ProvideValue(injector, &Logger{Level: "info"})
	do.Provide(
		injector, func(i do.Injector) (*Database, error) {
			return &Database{Config: do.MustInvoke[*Config](i), Logger: do.MustInvoke[*Logger](i)}, nil
		},
	)
	do.Provide(
		injector, func(i do.Injector) (*Cache, error) {
			return &Cache{Logger: do.MustInvoke[*Logger](i)}, nil
		},
	)
	do.Provide(
		injector, func(i do.Injector) (*Repository, error) {
			return &Repository{DB: do.MustInvoke[*Database](i), Cache: do.MustInvoke[*Cache](i)}, nil
		},
	)
	do.Provide(
		injector, func(i do.Injector) (*Service, error) {
			return &Service{Repo: do.MustInvoke[*Repository](i), Logger: do.MustInvoke[*Logger](i)}, nil
		},
	)
	_ = do.MustInvoke[*Service](injector)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = do.MustInvoke[*Service](injector)
	}
}

func BenchmarkResolve_Chain_Dig(b *testing.B) {
	c := dig.New()
	_ = c.Provide(func() *Config { return &Config{Host: "localhost", Port: 8080} })
	_ = c.Provide(func() *Logger { return &Logger{Level: "info"} })
	_ = c.Provide(func(cfg *Config, log *Logger) *Database { return &Database{Config: cfg, Logger: log} })
	_ = c.Provide(func(log *Logger) *Cache { return &Cache{Logger: log} })
	_ = c.Provide(func(db *Database, cache *Cache) *Repository { return &Repository{DB: db, Cache: cache} })
	_ = c.Provide(func(repo *Repository, log *Logger) *Service { return &Service{Repo: repo, Logger: log} })
	_ = c.Invoke(func(*Service) {})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.Invoke(func(*Service) {})
	}
}

func BenchmarkResolve_Transient_Thimble(b *testing.B) {
	c := thimble.New()
	_ = thimble.Provide(
		c.Root(), func(_ context.Context, _ thimble.Resolver) (*Config, error) {
			return &Config{Host: "localhost", Port: 8080}, nil
		}, thimble.WithLifetime(thimble.Transient),
	)
	ctx := context.Background()
	_, _ = thimble.Resolve[*Config](ctx, c.Root())

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = thimble.Resolve[*Config](ctx, c.Root())
	}
}

func BenchmarkResolve_Transient_Do(b *testing.B) {
	injector := do.New()
	do.ProvideTransient(
		injector, func(i do.Injector) (*Config, error) {
			return &Config{Host: "localhost", Port: 8080}, nil
		},
	)
	_ = do.MustInvoke[*Config](injector)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = do.MustInvoke[*Config](injector)
	}
}
