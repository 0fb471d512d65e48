// Package stream feeds DynamoDB Streams records into the handler registry.
// It is the standing replacement for a hosted trigger runtime: one poller per
// shard, per-shard ordering preserved, handlers invoked inline.
package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/go-push-reactor/internal/application/registry"
	"github.com/go-push-reactor/internal/pkg/id"
	"github.com/rs/zerolog"
)

// shardRefreshInterval is how often each stream is re-described to pick up
// shards created by resharding.
const shardRefreshInterval = 30 * time.Second

type Consumer struct {
	db       *dynamodb.Client
	streams  *dynamodbstreams.Client
	registry *registry.Registry
	sources  map[string]string // table name → logical event source
	interval time.Duration
	log      zerolog.Logger
}

func NewConsumer(
	db *dynamodb.Client,
	streams *dynamodbstreams.Client,
	reg *registry.Registry,
	sources map[string]string,
	interval time.Duration,
	log zerolog.Logger,
) *Consumer {
	return &Consumer{
		db:       db,
		streams:  streams,
		registry: reg,
		sources:  sources,
		interval: interval,
		log:      log,
	}
}

// Run resolves each table's stream and consumes it until the context is
// cancelled. It returns early only when a configured table has no stream.
func (c *Consumer) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for table, source := range c.sources {
		arn, err := c.streamARN(ctx, table)
		if err != nil {
			return fmt.Errorf("resolve stream for table %s: %w", table, err)
		}
		wg.Add(1)
		go func(arn, source string) {
			defer wg.Done()
			c.consumeStream(ctx, arn, source)
		}(arn, source)
	}
	wg.Wait()
	return nil
}

func (c *Consumer) streamARN(ctx context.Context, table string) (string, error) {
	out, err := c.db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(table),
	})
	if err != nil {
		return "", err
	}
	if out.Table.LatestStreamArn == nil {
		return "", fmt.Errorf("table has no stream enabled")
	}
	return *out.Table.LatestStreamArn, nil
}

// consumeStream keeps one poller per shard alive, re-describing the stream
// periodically to pick up new shards.
func (c *Consumer) consumeStream(ctx context.Context, arn, source string) {
	seen := make(map[string]struct{})
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		out, err := c.streams.DescribeStream(ctx, &dynamodbstreams.DescribeStreamInput{
			StreamArn: aws.String(arn),
		})
		if err != nil {
			c.log.Warn().Str("source", source).Err(err).Msg("describe stream failed")
		} else {
			for _, shard := range out.StreamDescription.Shards {
				shardID := *shard.ShardId
				if _, ok := seen[shardID]; ok {
					continue
				}
				seen[shardID] = struct{}{}
				wg.Add(1)
				go func(shardID string) {
					defer wg.Done()
					c.consumeShard(ctx, arn, shardID, source)
				}(shardID)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(shardRefreshInterval):
		}
	}
}

func (c *Consumer) consumeShard(ctx context.Context, arn, shardID, source string) {
	iterator, err := c.shardIterator(ctx, arn, shardID)
	if err != nil {
		c.log.Warn().Str("source", source).Str("shard", shardID).Err(err).Msg("could not open shard")
		return
	}

	for iterator != nil {
		out, err := c.streams.GetRecords(ctx, &dynamodbstreams.GetRecordsInput{
			ShardIterator: iterator,
			Limit:         aws.Int32(100),
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn().Str("source", source).Str("shard", shardID).Err(err).Msg("get records failed, reopening shard")
			if iterator, err = c.shardIterator(ctx, arn, shardID); err != nil {
				return
			}
			continue
		}

		for _, rec := range out.Records {
			c.handleRecord(ctx, source, rec)
		}

		if len(out.Records) == 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.interval):
			}
		}
		iterator = out.NextShardIterator
	}
}

// shardIterator opens the shard at LATEST. Notifications are best-effort, so
// replaying records that accumulated while the reactor was down would only
// re-send stale pushes; cascade cleanup stays safe because it is idempotent.
func (c *Consumer) shardIterator(ctx context.Context, arn, shardID string) (*string, error) {
	out, err := c.streams.GetShardIterator(ctx, &dynamodbstreams.GetShardIteratorInput{
		StreamArn:         aws.String(arn),
		ShardId:           aws.String(shardID),
		ShardIteratorType: streamtypes.ShardIteratorTypeLatest,
	})
	if err != nil {
		return nil, err
	}
	return out.ShardIterator, nil
}

func (c *Consumer) handleRecord(ctx context.Context, source string, rec streamtypes.Record) {
	ev, err := recordEvent(source, rec)
	if err != nil {
		c.log.Warn().Str("source", source).Err(err).Msg("skipping malformed stream record")
		return
	}

	log := c.log.With().
		Str("invocation_id", id.New()).
		Str("source", ev.Source).
		Str("kind", string(ev.Kind)).
		Str("doc_id", ev.ID).
		Logger()

	outcome, err := c.registry.Dispatch(ctx, ev)
	if err != nil {
		log.Error().Err(err).Msg("handler failed")
		return
	}
	log.Debug().Str("outcome", string(outcome)).Msg("event handled")
}
