package storage

import (
	"context"
	"log"
)

// Fallback reads and writes the primary store and only touches the secondary
// when the primary fails.
type Fallback struct {
	Primary   Store
	Secondary Store
}

func NewFallback(primary, secondary Store) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary}
}

func (f *Fallback) Load(ctx context.Context, key string, dst interface{}) (bool, error) {
	found, err := f.Primary.Load(ctx, key, dst)
	if err == nil {
		return found, nil
	}
	log.Printf("storage: primary load of %s failed, using fallback: %v", key, err)
	return f.Secondary.Load(ctx, key, dst)
}

func (f *Fallback) Save(ctx context.Context, key string, value interface{}) error {
	err := f.Primary.Save(ctx, key, value)
	if err == nil {
		return nil
	}
	log.Printf("storage: primary save of %s failed, using fallback: %v", key, err)
	return f.Secondary.Save(ctx, key, value)
}
