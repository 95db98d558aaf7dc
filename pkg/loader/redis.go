package loader

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisMGet returns a BatchFunc that resolves string keys with a single
// Redis MGET. Every key is prefixed before the lookup. A missing key yields
// a nil *string, which settles as a valid "absent" result rather than an
// error; a value of an unexpected type fails only its own position.
//
// The round trip uses the context the Loader was constructed with, so the
// usual go-redis deadline and cancellation behavior applies.
func RedisMGet(client *redis.Client, prefix string) BatchFunc[string, *string] {
	return func(ctx context.Context, keys []string) ([]Result[*string], error) {
		full := make([]string, len(keys))
		for i, k := range keys {
			full[i] = prefix + k
		}

		vals, err := client.MGet(ctx, full...).Result()
		if err != nil {
			return nil, err
		}

		out := make([]Result[*string], len(vals))
		for i, v := range vals {
			switch s := v.(type) {
			case nil:
				// absent, not an error
			case string:
				out[i].Value = &s
			default:
				out[i].Err = fmt.Errorf("loader: unexpected redis value type %T for key %q", v, keys[i])
			}
		}
		return out, nil
	}
}
