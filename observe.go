package thimble

import (
	"time"
)

type ResolveHook func(key string, duration time.Duration, err error)

type ProvideHook func(key string)

type ReleaseHook func(key string, duration time.Duration, err error)
