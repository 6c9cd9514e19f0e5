// Package thimble is a compile-time-safe dependency injection container with
// scoped lifetime management for Go 1.25+.
//
// Thimble keeps the whole object graph explicit: bindings are registered as
// key-to-factory entries (no runtime struct introspection, no field
// injection), dependencies are validated eagerly before any provider runs,
// and singleton lifetimes are bounded by a tree of scopes the host
// application opens and closes at boundaries it controls.
//
// # Quick Start
//
// Create a container and register providers into its root scope:
//
//	c := thimble.New()
//	root := c.Root()
//
//	thimble.ProvideValue(root, &Config{Port: 8080})
//
//	thimble.Provide(root, func(ctx context.Context, r thimble.Resolver) (*Server, error) {
//	    cfg, err := thimble.Dep[*Config](ctx, r)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Server{config: cfg}, nil
//	}, thimble.WithDependencies(thimble.Key[*Config]()))
//
//	srv, err := thimble.Resolve[*Server](ctx, root)
//
// # Bindings
//
// A binding maps a type key (plus an optional name qualifier) to a provider:
//
//	thimble.Provide[T](scope, provider)            // factory closure
//	thimble.ProvideValue[T](scope, value)          // pre-built instance
//	thimble.ProvideNamed[T](scope, "name", prov)   // named binding
//
// Registering a key twice in the same scope is a CONFLICT error unless the
// container was created with WithOverride, in which case the last
// registration wins. Dependencies are declared with WithDependencies and
// read inside providers with Dep:
//
//	thimble.Provide(root, NewRepo,
//	    thimble.WithDependencies(thimble.Key[*DB](), thimble.Key[*Logger]()))
//
// # Scopes
//
// Scopes are named lifetime boundaries forming a tree. A child scope sees
// every binding on its parent chain and may install its own, shadowing the
// parent's:
//
//	req, err := c.OpenScope("request")
//	defer req.Close(ctx)
//
//	thimble.Provide(req, NewRequestCache)        // lives only in this scope
//	svc, err := thimble.Resolve[*Service](ctx, req)
//
// A singleton instance caches in the scope that owns its binding and lives
// until that scope closes. Closing releases cached instances in reverse
// construction order, calling Release on any instance implementing Releaser
// and any WithOnRelease hooks. Closing twice reports ALREADY_CLOSED; closing
// a parent before its children is a SCOPE_ORDER error.
//
// Lifetimes: Singleton (default, cached in the owning scope) and Transient
// (constructed on every resolution, never cached):
//
//	thimble.Provide(root, NewSandwich, thimble.WithLifetime(thimble.Transient))
//
// # Resolution
//
//	svc, err := thimble.Resolve[*Service](ctx, scope)
//	svc := thimble.MustResolve[*Service](ctx, scope)
//	opt := thimble.ResolveOptional[*Cache](ctx, scope)
//
// Resolution builds a plan first: a depth-first walk over the bindings
// visible from the scope, failing with CYCLIC_DEPENDENCY (naming the cycle)
// or UNBOUND_KEY before any provider runs. Plans are deterministic for a
// fixed registry state and memoized per scope. Concurrent first resolution
// of a singleton constructs it exactly once; all callers share the result.
// Provider failures propagate to the caller and never poison the cache.
//
// # Validation
//
// Check the root graph eagerly, before anything is constructed:
//
//	if err := c.Validate(); err != nil { ... }
//
// # Interface Binding
//
//	thimble.Bind[UserRepository, *PostgresUserRepo](root)
//	thimble.BindNamed[Cache, *RedisCache](root, "session")
//
// # Modules
//
// Group related bindings and install them into any scope:
//
//	var ConfigModule = thimble.NewModule("config")
//	thimble.ModuleProvideValue(ConfigModule, &Config{Port: 8080})
//
//	var AppModule = thimble.NewModule("app").Include(ConfigModule)
//	root.Apply(AppModule)
//
// # Decorators
//
//	thimble.Decorate(c, func(ctx context.Context, r thimble.Resolver, log *Logger) (*Logger, error) {
//	    return log.Named("app"), nil
//	})
//
// # Health Checks
//
// Cached instances anywhere in the scope tree may implement HealthChecker or
// ReadinessChecker:
//
//	err := c.Live(ctx)
//	err := c.Ready(ctx)
//	reports := c.Health(ctx)
//
// # Observers
//
//	c := thimble.New(
//	    thimble.WithResolveObserver(func(key string, d time.Duration, err error) {
//	        metrics.RecordResolve(key, d, err)
//	    }),
//	    thimble.WithReleaseObserver(func(key string, d time.Duration, err error) {
//	        metrics.RecordRelease(key, d, err)
//	    }),
//	)
//
// # Debug Visualization
//
//	c.PrintGraph()        // ASCII
//	c.PrintGraphDOT()     // Graphviz DOT
//	c.PrintBindings()     // table
//	plan, _ := scope.Plan(thimble.Key[*Server]())
package thimble
