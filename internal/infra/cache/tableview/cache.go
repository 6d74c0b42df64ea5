package tableview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

const keyPrefix = "smc:tableview"

// Cache кеш схемы стола (стол + бронирования в диапазоне отображения) в Redis
//
// Все диапазоны одного стола лежат в одном hash-ключе, поэтому инвалидация стола
// удаляет один ключ. Рядом хранится счетчик версий стола: Set пишет схему, только если
// версия не изменилась с момента Get. Без клиента кеш выключен: Get всегда промах, запись и инвалидация ничего не делают.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New создает кеш. client может быть nil
func New(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Enabled сообщает, подключен ли Redis
func (c *Cache) Enabled() bool {
	return c.client != nil
}

// Get возвращает закешированную схему стола для диапазона и текущую версию стола.
// Версию нужно передать в Set: запись, прочитанная до инвалидации, не попадет в кеш.
func (c *Cache) Get(ctx context.Context, tableID int64, displayRange domain.TimeWindow) (*domain.TableView, int64, bool, error) {
	if !c.Enabled() {
		return nil, 0, false, nil
	}

	pipe := c.client.Pipeline()
	verCmd := pipe.Get(ctx, VersionKey(tableID))
	viewCmd := pipe.HGet(ctx, TableKey(tableID), RangeField(displayRange))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("%w: Get - table=%d: %v", ErrCacheRead, tableID, err)
	}

	version, err := verCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("%w: Get - table=%d version: %v", ErrCacheRead, tableID, err)
	}

	raw, err := viewCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: Get - table=%d: %v", ErrCacheRead, tableID, err)
	}

	view, err := decodeView(raw)
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: Get - table=%d: %v", ErrDecode, tableID, err)
	}

	return view, version, true, nil
}

// setIfVersion пишет поле hash-а, только если версия стола не менялась
// KEYS: ключ схем, ключ версии. ARGV: ожидаемая версия, поле, значение, TTL в мс
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[2], ARGV[3])
if tonumber(ARGV[4]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[4])
end
return 1
`)

// Set сохраняет схему стола для диапазона и продлевает TTL ключа стола.
// Возвращает false, если после Get стол был инвалидирован и запись пропущена.
func (c *Cache) Set(ctx context.Context, view *domain.TableView, displayRange domain.TimeWindow, version int64) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	raw, err := encodeView(view)
	if err != nil {
		return false, fmt.Errorf("%w: Set - table=%d: %v", ErrCacheWrite, view.Table.ID, err)
	}

	tableID := view.Table.ID
	stored, err := setIfVersion.Run(ctx, c.client,
		[]string{TableKey(tableID), VersionKey(tableID)},
		strconv.FormatInt(version, 10), RangeField(displayRange), raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("%w: Set - table=%d: %v", ErrCacheWrite, tableID, err)
	}

	return stored == 1, nil
}

// Invalidate удаляет все закешированные диапазоны столов и увеличивает их версии
func (c *Cache) Invalidate(ctx context.Context, tableIDs ...int64) error {
	if !c.Enabled() || len(tableIDs) == 0 {
		return nil
	}

	keys := make([]string, len(tableIDs))
	pipe := c.client.TxPipeline()
	for i, id := range tableIDs {
		keys[i] = TableKey(id)
		pipe.Incr(ctx, VersionKey(id))
	}
	pipe.Del(ctx, keys...)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: Invalidate - tables=%v: %v", ErrCacheWrite, tableIDs, err)
	}

	return nil
}

// TableKey ключ hash-а схем одного стола
func TableKey(tableID int64) string {
	return keyPrefix + ":" + strconv.FormatInt(tableID, 10)
}

// VersionKey ключ счетчика инвалидаций стола
func VersionKey(tableID int64) string {
	return keyPrefix + ":ver:" + strconv.FormatInt(tableID, 10)
}

// RangeField поле hash-а для диапазона отображения
func RangeField(displayRange domain.TimeWindow) string {
	return strconv.FormatInt(displayRange.Start().Unix(), 10) + "-" + strconv.FormatInt(displayRange.End().Unix(), 10)
}

func encodeView(view *domain.TableView) ([]byte, error) {
	return json.Marshal(view)
}

func decodeView(raw []byte) (*domain.TableView, error) {
	var view domain.TableView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, err
	}
	if view.Bookings == nil {
		view.Bookings = []*domain.TableBooking{}
	}
	return &view, nil
}
