package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Key identifica una consulta cacheada, ej. Key{"pending-tasks", "matriz"}.
// Invalidar Key{"pending-tasks"} afecta también a todas sus claves hijas.
type Key []string

const queryKeyPrefix = "query"

func (k Key) String() string {
	return queryKeyPrefix + ":" + strings.Join(k, ":")
}

// entry es lo que realmente se guarda en el backend (memoria o Redis).
type entry struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Updater recibe el valor actual serializado (nil si no existe) y devuelve el
// nuevo valor. Devolver nil deja la entrada como estaba.
type Updater func(current json.RawMessage) (interface{}, error)

// QueryCache es la caché de consultas compartida por todos los servicios.
// Se inyecta explícitamente; no hay instancia global.
type QueryCache struct {
	store Cache
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time

	// mu serializa lectura-modificación-escritura e invalidaciones.
	mu         sync.Mutex
	generation uint64
}

// NewQueryCache crea la caché de consultas sobre un backend Cache.
// ttl es el tiempo máximo que una entrada vive en el backend.
func NewQueryCache(store Cache, ttl time.Duration, log *zap.Logger) *QueryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &QueryCache{store: store, ttl: ttl, log: log, now: time.Now}
}

// WithClock permite fijar el reloj (tests).
func (q *QueryCache) WithClock(now func() time.Time) *QueryCache {
	q.now = now
	return q
}

func (q *QueryCache) ttlSecs() int {
	secs := int(q.ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (q *QueryCache) read(ctx context.Context, key string) (entry, bool, error) {
	var e entry
	hit, err := q.store.Get(ctx, key, &e)
	if err != nil || !hit {
		return entry{}, false, err
	}
	return e, true, nil
}

func (q *QueryCache) write(ctx context.Context, key string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return q.store.Set(ctx, key, entry{Data: raw, UpdatedAt: q.now().UTC()}, q.ttlSecs())
}

// matching devuelve la clave exacta y sus hijas presentes en el backend.
func (q *QueryCache) matching(ctx context.Context, prefix Key) ([]string, error) {
	exact := prefix.String()
	keys, err := q.store.Keys(ctx, exact)
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, k := range keys {
		if k == exact || strings.HasPrefix(k, exact+":") {
			out = append(out, k)
		}
	}
	return out, nil
}

// Get rellena dest con el valor cacheado de key.
func (q *QueryCache) Get(ctx context.Context, key Key, dest interface{}) (bool, error) {
	e, ok, err := q.read(ctx, key.String())
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// UpdatedAt devuelve cuándo se escribió la entrada por última vez.
func (q *QueryCache) UpdatedAt(ctx context.Context, key Key) (time.Time, bool) {
	e, ok, err := q.read(ctx, key.String())
	if err != nil || !ok {
		return time.Time{}, false
	}
	return e.UpdatedAt, true
}

// Set aplica updater sobre la entrada de key.
func (q *QueryCache) Set(ctx context.Context, key Key, updater Updater) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	k := key.String()
	e, ok, err := q.read(ctx, k)
	if err != nil {
		return err
	}
	var current json.RawMessage
	if ok {
		current = e.Data
	}
	next, err := updater(current)
	if err != nil || next == nil {
		return err
	}
	return q.write(ctx, k, next)
}

// SetMatching aplica updater a todas las entradas existentes bajo prefix y
// devuelve cuántas se reescribieron.
func (q *QueryCache) SetMatching(ctx context.Context, prefix Key, updater Updater) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	keys, err := q.matching(ctx, prefix)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, k := range keys {
		e, ok, err := q.read(ctx, k)
		if err != nil {
			return updated, err
		}
		if !ok {
			continue
		}
		next, err := updater(e.Data)
		if err != nil {
			return updated, err
		}
		if next == nil {
			continue
		}
		if err := q.write(ctx, k, next); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// Invalidate elimina las entradas de cada key (y sus hijas) para forzar una
// nueva lectura. Las lecturas en curso no repoblarán la caché con datos viejos.
func (q *QueryCache) Invalidate(ctx context.Context, keys ...Key) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.generation++
	var errs []error
	for _, key := range keys {
		matched, err := q.matching(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, k := range matched {
			if err := q.store.Delete(ctx, k); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (q *QueryCache) currentGeneration() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.generation
}

func (q *QueryCache) storeFetched(ctx context.Context, key string, gen uint64, value interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.generation != gen {
		return
	}
	if err := q.write(ctx, key, value); err != nil {
		q.log.Warn("Query cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// ---------------- Helpers tipados ----------------

// Fetch devuelve el valor cacheado si tiene menos de staleTime; si no, lo
// obtiene con fetch y lo guarda. staleTime <= 0 fuerza la lectura.
func Fetch[T any](ctx context.Context, q *QueryCache, key Key, staleTime time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	k := key.String()
	if staleTime > 0 {
		e, ok, err := q.read(ctx, k)
		if err != nil {
			q.log.Warn("Query cache read failed", zap.String("key", k), zap.Error(err))
		} else if ok && q.now().Sub(e.UpdatedAt) < staleTime {
			var cached T
			if err := json.Unmarshal(e.Data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	gen := q.currentGeneration()
	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	q.storeFetched(ctx, k, gen, value)
	return value, nil
}

// GetQuery lee una entrada tipada.
func GetQuery[T any](ctx context.Context, q *QueryCache, key Key) (T, bool, error) {
	var v T
	ok, err := q.Get(ctx, key, &v)
	return v, ok, err
}

// UpdateQueries aplica fn a todas las entradas tipadas bajo prefix.
func UpdateQueries[T any](ctx context.Context, q *QueryCache, prefix Key, fn func(T) T) (int, error) {
	return q.SetMatching(ctx, prefix, func(current json.RawMessage) (interface{}, error) {
		var v T
		if err := json.Unmarshal(current, &v); err != nil {
			return nil, err
		}
		return fn(v), nil
	})
}
