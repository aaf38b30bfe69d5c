package database

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"labku_backend/internals/configs"
)

// RDB dipakai untuk fan-out notifikasi ujian (pub/sub). Boleh nil:
// tanpa REDIS_ADDR aplikasi tetap jalan, notifikasi hanya di-log.
var RDB *redis.Client

func ConnectRedis() {
	if configs.RedisAddr == "" {
		log.Println("⚠️ REDIS_ADDR belum diset, notifikasi realtime dimatikan.")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.GetEnv("REDIS_PASSWORD"),
	})

	if _, err := RDB.Ping(context.Background()).Result(); err != nil {
		log.Printf("❌ Gagal konek Redis: %v", err)
		RDB = nil
		return
	}
	log.Println("✅ Redis connected.")
}
