// Package geyser wraps the Geyser gRPC streaming subscription: dialing,
// authenticating, issuing the one subscribe request the robot ever sends,
// and handing decoded updates to the caller one at a time. It is built
// around the hand-authored wire codec in internal/geyser/proto rather than
// generated service bindings.
package geyser

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	gproto "raydiumsentry/internal/geyser/proto"
)

// subscribeMethod is the yellowstone-grpc Geyser service's streaming RPC,
// invoked directly through grpc.ClientConn.NewStream since no generated
// service descriptor is carried.
const subscribeMethod = "/geyser.Geyser/Subscribe"

var subscribeStreamDesc = &grpc.StreamDesc{
	StreamName:    "Subscribe",
	ServerStreams: true,
	ClientStreams: true,
}

// Client holds the dialed connection to a Geyser endpoint.
type Client struct {
	conn           *grpc.ClientConn
	logger         *zap.Logger
	fanOutCapacity int64
}

// SetFanOutCapacity bounds the number of detached per-update dispatch
// goroutines Run may have outstanding at once, sized from the trading
// profile's maximum_blocking_threads_quantity. A non-positive value leaves
// the package default in effect.
func (c *Client) SetFanOutCapacity(n int) { c.fanOutCapacity = int64(n) }

// Dial connects to grpcEndpoint, authenticating every RPC with
// grpcAuthToken via per-RPC credentials. Keepalive pings every 10s and the
// 1 GiB message ceiling accommodate large account payloads on a long-lived
// stream.
func Dial(grpcEndpoint, grpcAuthToken string, logger *zap.Logger) (*Client, error) {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(tokenAuth{token: grpcAuthToken}),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(1<<30),
			grpc.MaxCallSendMsgSize(1<<30),
			grpc.CallContentSubtype(subscribeCodecName),
		),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	}
	if grpcAuthToken != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(tokenAuth{token: grpcAuthToken}))
	}

	logger.Info("connecting to geyser", zap.String("endpoint", grpcEndpoint))
	conn, err := grpc.NewClient(grpcEndpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, logger: logger}, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Subscription wraps one open subscribe stream.
type Subscription struct {
	stream grpc.ClientStream
}

// Subscribe opens the subscribe stream and sends the single "everything"
// filter request: one transaction filter slot and one account filter slot,
// both with empty inclusion lists, no commitment override.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	stream, err := c.conn.NewStream(ctx, subscribeStreamDesc, subscribeMethod)
	if err != nil {
		return nil, err
	}

	req := &gproto.SubscribeRequest{
		Transactions: map[string]*gproto.SubscribeRequestFilterTransactions{
			"raydium_sentry": {},
		},
		Accounts: map[string]*gproto.SubscribeRequestFilterAccounts{
			"raydium_sentry": {},
		},
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, fmt.Errorf("geyser: sending subscribe request: %w", err)
	}
	return &Subscription{stream: stream}, nil
}

// Recv blocks for the next update. It returns io.EOF when the server half
// closes the stream, at which point the caller should reconnect.
func (s *Subscription) Recv() (*gproto.SubscribeUpdate, error) {
	upd := &gproto.SubscribeUpdate{}
	if err := s.stream.RecvMsg(upd); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}
	return upd, nil
}

// tokenAuth implements credentials.PerRPCCredentials, attaching the
// configured Geyser auth token to every RPC as an x-token metadata entry.
type tokenAuth struct {
	token string
}

func (t tokenAuth) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"x-token": t.token}, nil
}

func (t tokenAuth) RequireTransportSecurity() bool { return false }
