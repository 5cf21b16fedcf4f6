package lexicon

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Redis key layout for the shared lexicon. The index list preserves entry
// order, which first-match-wins depends on; the entries hash maps each
// task to its JSON-encoded phrase list.
const (
	RedisKeyIndex   = "taskmatch:lexicon:index"
	RedisKeyEntries = "taskmatch:lexicon:entries"
)

// RedisProvider reads the lexicon from a Redis instance shared by the
// tooling that curates it. Like any remote provider it fails transiently
// when the instance is unreachable; the resilience and cache layers are
// expected to sit in front of it.
type RedisProvider struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisProvider creates a Redis-backed provider.
func NewRedisProvider(client *redis.Client) *RedisProvider {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisProvider{
		client: client,
		logger: log.With().Str("component", "lexicon-redis").Logger(),
	}
}

// GetLexicon implements Provider. The utterance does not partition the
// lexicon in this layout; every call returns the full ordered set. Entry
// bodies are fetched in one pipeline round trip after the index read.
func (r *RedisProvider) GetLexicon(ctx context.Context, _ string) ([]Entry, error) {
	tasks, err := r.client.LRange(ctx, RedisKeyIndex, 0, -1).Result()
	if err != nil {
		return nil, &ProviderError{Class: ErrorClassNetwork, Message: "read lexicon index", Err: err}
	}
	if len(tasks) == 0 {
		r.logger.Debug().Msg("Lexicon index is empty")
		return nil, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(tasks))
	for i, task := range tasks {
		cmds[i] = pipe.HGet(ctx, RedisKeyEntries, task)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, &ProviderError{Class: ErrorClassNetwork, Message: "read lexicon entries", Err: err}
	}

	entries := make([]Entry, 0, len(tasks))
	for i, task := range tasks {
		data, err := cmds[i].Bytes()
		if err == redis.Nil {
			// Index references a task with no phrase set. Serve the rest.
			r.logger.Warn().Str("task", task).Msg("Lexicon entry missing for indexed task")
			continue
		}
		if err != nil {
			return nil, &ProviderError{Class: ErrorClassNetwork, Message: fmt.Sprintf("read lexicon entry %q", task), Err: err}
		}
		var phrases []string
		if err := json.Unmarshal(data, &phrases); err != nil {
			return nil, &ProviderError{Class: ErrorClassClient, Message: fmt.Sprintf("decode lexicon entry %q", task), Err: err}
		}
		entries = append(entries, Entry{Task: TaskID(task), Phrases: phrases})
	}
	return entries, nil
}

// SeedRedis replaces the lexicon stored in Redis with entries, normalizing
// phrases on the way in. Index order follows entry order. Intended for
// tests and the tooling that curates the lexicon.
func SeedRedis(ctx context.Context, client *redis.Client, entries []Entry) error {
	normalized := NormalizeEntries(entries)

	pipe := client.TxPipeline()
	pipe.Del(ctx, RedisKeyIndex, RedisKeyEntries)
	for _, e := range normalized {
		data, err := json.Marshal(e.Phrases)
		if err != nil {
			return fmt.Errorf("encode lexicon entry %q: %w", e.Task, err)
		}
		pipe.RPush(ctx, RedisKeyIndex, string(e.Task))
		pipe.HSet(ctx, RedisKeyEntries, string(e.Task), data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("seed lexicon: %w", err)
	}
	return nil
}
