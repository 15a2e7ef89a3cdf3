package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JonasWeber/TrackNest/internal/pkg/cache"
	"github.com/JonasWeber/TrackNest/internal/pkg/database"
)

const orderDownloadsKey = "order:counters:downloads"

// AddOrderDownload increments the pending download counter for an order in Redis.
// The hot path only touches Redis; the pending counts are drained to the
// database by the periodic sweep.
func AddOrderDownload(reference string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, orderDownloadsKey, reference, 1).Err()
}

// FlushAll drains the pending download counters to the orders table.
func FlushAll() error {
	return flushHashToOrders(orderDownloadsKey, "download_count")
}

// flushHashToOrders drains a Redis hash atomically and applies batched increments
// to the orders table. Uses RENAME to a temporary key for atomic drain without
// losing in-flight increments.
func flushHashToOrders(redisKey, column string) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	// Atomically move the hash to a temp key for draining
	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// If key does not exist, nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		// Some Redis libs return redis.Nil; treat as empty
		if err.Error() == "redis: nil" {
			return nil
		}
		return err
	}

	// Ensure cleanup of tmpKey even if later steps fail
	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	type pair struct {
		ref string
		inc int64
	}
	pairs := make([]pair, 0, len(data))
	for k, v := range data {
		inc, ierr := strconv.ParseInt(v, 10, 64)
		if ierr != nil || inc == 0 {
			continue
		}
		pairs = append(pairs, pair{ref: k, inc: inc})
	}
	if len(pairs) == 0 {
		return nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].ref < pairs[j].ref })

	// UPDATE orders SET <column> = <column> + CASE reference WHEN ? THEN ? ... END WHERE reference IN ( ... )
	var builder strings.Builder
	args := make([]interface{}, 0, len(pairs)*3)
	builder.WriteString("UPDATE orders SET ")
	builder.WriteString(column)
	builder.WriteString(" = ")
	builder.WriteString(column)
	builder.WriteString(" + CASE reference")
	for _, p := range pairs {
		builder.WriteString(" WHEN ? THEN ?")
		args = append(args, p.ref, p.inc)
	}
	builder.WriteString(" END WHERE reference IN (")
	for i, p := range pairs {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString("?")
		args = append(args, p.ref)
	}
	builder.WriteString(")")

	db := database.GetDB()
	return db.Exec(builder.String(), args...).Error
}
