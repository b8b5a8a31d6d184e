// Package jobtest provides an in-memory Zeebe gateway that records the job
// commands a handler sends, for use in handler tests.
package jobtest

import (
	"context"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"google.golang.org/grpc"
)

type Completed struct {
	JobKey    int64
	Variables string
}

type Failed struct {
	JobKey       int64
	Retries      int32
	ErrorMessage string
	Variables    string
}

type Thrown struct {
	JobKey       int64
	ErrorCode    string
	ErrorMessage string
	Variables    string
}

// Gateway records complete, fail and throw-error requests. Any other
// gateway call panics.
type Gateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	completed []Completed
	failed    []Failed
	thrown    []Thrown

	// CompleteErrors are returned, in order, by the first CompleteJob calls.
	CompleteErrors []error
	// ExpiredContexts counts commands sent on an already cancelled context.
	ExpiredContexts int
}

func NewGateway() *Gateway {
	return &Gateway{}
}

// Client returns a worker.JobClient whose commands go to g.
func (g *Gateway) Client() worker.JobClient {
	return jobClient{gateway: g}
}

func (g *Gateway) CompleteJob(ctx context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.noteContext(ctx)
	if len(g.CompleteErrors) > 0 {
		err := g.CompleteErrors[0]
		g.CompleteErrors = g.CompleteErrors[1:]
		if err != nil {
			return nil, err
		}
	}
	g.completed = append(g.completed, Completed{JobKey: in.JobKey, Variables: in.Variables})
	return &pb.CompleteJobResponse{}, nil
}

func (g *Gateway) FailJob(ctx context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.noteContext(ctx)
	g.failed = append(g.failed, Failed{
		JobKey:       in.JobKey,
		Retries:      in.Retries,
		ErrorMessage: in.ErrorMessage,
		Variables:    in.Variables,
	})
	return &pb.FailJobResponse{}, nil
}

func (g *Gateway) ThrowError(ctx context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.noteContext(ctx)
	g.thrown = append(g.thrown, Thrown{
		JobKey:       in.JobKey,
		ErrorCode:    in.ErrorCode,
		ErrorMessage: in.ErrorMessage,
		Variables:    in.Variables,
	})
	return &pb.ThrowErrorResponse{}, nil
}

func (g *Gateway) noteContext(ctx context.Context) {
	if ctx.Err() != nil {
		g.ExpiredContexts++
	}
}

func (g *Gateway) Completed() []Completed {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Completed(nil), g.completed...)
}

func (g *Gateway) Failed() []Failed {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Failed(nil), g.failed...)
}

func (g *Gateway) Thrown() []Thrown {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Thrown(nil), g.thrown...)
}

func noRetry(context.Context, error) bool { return false }

type jobClient struct {
	gateway *Gateway
}

func (c jobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.gateway, noRetry)
}

func (c jobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.gateway, noRetry)
}

func (c jobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.gateway, noRetry)
}
