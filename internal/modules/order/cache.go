package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedRepository serves GetOrderByID from Redis and drops cached copies of
// every order written inside a committed transaction. Locked reads always go to
// the primary repository.
//
// Each invalidation bumps a per-order generation counter. A read-through only
// fills the cache when the generation it saw before reading the primary is
// still current, so a read racing a commit never stores the older copy.
type CachedRepository struct {
	primary Repository
	rdb     *redis.Client
	ttl     time.Duration
	log     *zap.Logger
}

func NewCachedRepository(primary Repository, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedRepository {
	return &CachedRepository{primary: primary, rdb: rdb, ttl: ttl, log: log}
}

// generations outlive cached copies so a slow reader still sees the bump
const generationTTL = 24 * time.Hour

func cacheKey(id uuid.UUID) string { return "order:" + id.String() }

func generationKey(id uuid.UUID) string { return "order:gen:" + id.String() }

func (r *CachedRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	key := cacheKey(id)

	cached, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var o Order
		if err := json.Unmarshal(cached, &o); err == nil {
			return &o, nil
		}
	} else if err != redis.Nil {
		r.log.Warn("order cache read failed", zap.String("order_id", id.String()), zap.Error(err))
	}

	gen, err := generation(ctx, r.rdb, id)
	if err != nil {
		r.log.Warn("order cache generation read failed", zap.String("order_id", id.String()), zap.Error(err))
	}

	o, err := r.primary.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gen >= 0 {
		r.fill(ctx, o, gen)
	}
	return o, nil
}

// generation returns the current invalidation count for id, or -1 when it
// cannot be read.
func generation(ctx context.Context, c interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}, id uuid.UUID) (int64, error) {
	gen, err := c.Get(ctx, generationKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return -1, err
	}
	return gen, nil
}

// fill stores o unless the order was invalidated after gen was read.
func (r *CachedRepository) fill(ctx context.Context, o *Order, gen int64) {
	data, err := json.Marshal(o)
	if err != nil {
		return
	}
	genKey := generationKey(o.ID)
	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx, o.ID)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey(o.ID), data, r.ttl)
			return nil
		})
		return err
	}, genKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		r.log.Warn("order cache write failed", zap.String("order_id", o.ID.String()), zap.Error(err))
	}
}

func (r *CachedRepository) CreateOrder(ctx context.Context, o *Order) error {
	return r.primary.CreateOrder(ctx, o)
}

func (r *CachedRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, drafts bool) ([]*Order, error) {
	return r.primary.ListOrdersByCustomer(ctx, customerID, drafts)
}

func (r *CachedRepository) ListOrders(ctx context.Context, status Status) ([]*Order, error) {
	return r.primary.ListOrders(ctx, status)
}

func (r *CachedRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	var touched []uuid.UUID
	err := r.primary.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		return fn(ctx, &trackingTx{Tx: tx, touched: &touched})
	})
	if err != nil {
		return err
	}
	r.invalidate(ctx, touched)
	return nil
}

func (r *CachedRepository) invalidate(ctx context.Context, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	keys := make([]string, 0, len(ids))
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			keys = append(keys, cacheKey(id))
			pipe.Incr(ctx, generationKey(id))
			pipe.Expire(ctx, generationKey(id), generationTTL)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		r.log.Warn("order cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// trackingTx records which orders a transaction wrote.
type trackingTx struct {
	Tx
	touched *[]uuid.UUID
}

func (t *trackingTx) SaveOrder(ctx context.Context, o *Order) error {
	*t.touched = append(*t.touched, o.ID)
	return t.Tx.SaveOrder(ctx, o)
}

func (t *trackingTx) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []*LineItem) error {
	*t.touched = append(*t.touched, orderID)
	return t.Tx.ReplaceItems(ctx, orderID, items)
}

func (t *trackingTx) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	*t.touched = append(*t.touched, id)
	return t.Tx.DeleteOrder(ctx, id)
}
