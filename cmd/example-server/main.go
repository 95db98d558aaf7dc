package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dcyfr/resolver-kit/pkg/loader"
	"github.com/dcyfr/resolver-kit/pkg/limiter"
)

// mapFetch is the in-process fallback when no Redis is configured: one bulk
// lookup against a fixed profile table.
func mapFetch(profiles map[string]string) loader.BatchFunc[string, *string] {
	return func(ctx context.Context, keys []string) ([]loader.Result[*string], error) {
		log.Printf("bulk fetch: %v", keys)
		out := make([]loader.Result[*string], len(keys))
		for i, k := range keys {
			if v, ok := profiles[k]; ok {
				out[i].Value = &v
			}
		}
		return out, nil
	}
}

func main() {
	ctx := context.Background()

	// Rate limit: 10 req/min per IP
	l := limiter.NewFixedWindow(10, time.Minute,
		limiter.WithOnDenied(func(id string) { log.Printf("rate limited: %s", id) }),
	)
	go limiter.Sweep(ctx, l, time.Minute)

	// Batch fetch: Redis MGET when available, in-process map otherwise
	var fetch loader.BatchFunc[string, *string]
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		fetch = loader.RedisMGet(client, "profiles:")
		log.Printf("resolving profiles via Redis MGET (%s)", redisAddr)
	} else {
		fetch = mapFetch(map[string]string{
			"1": "Clark Kent",
			"2": "Lois Lane",
			"3": "Lex Luthor",
		})
		log.Print("resolving profiles via in-process map")
	}

	http.HandleFunc("/profiles", func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.Check(ip) {
			retryAfter := "60"
			if at, ok := l.ResetAt(ip); ok {
				retryAfter = fmt.Sprintf("%.0f", time.Until(at).Seconds())
			}
			w.Header().Set("Retry-After", retryAfter)
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("Rate limit exceeded\n"))
			return
		}

		// one loader per request: however many ids the client asks for,
		// the backend sees a single bulk lookup
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		ld := loader.New(r.Context(), fetch)

		results := ld.LoadMany(ids).Results()
		out := make(map[string]*string, len(ids))
		for i, res := range results {
			if res.Err != nil {
				log.Printf("profile %s: %v", ids[i], res.Err)
				continue
			}
			out[ids[i]] = res.Value
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	})

	log.Print("Server listening on :8080 (try /profiles?ids=1,2,3)")
	http.ListenAndServe(":8080", nil)
}
