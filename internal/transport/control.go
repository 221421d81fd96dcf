package transport

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "lister/api/proto/v1"
	"lister/internal/logging"
	"lister/internal/pipeline"
)

// Control runs deployed list files in the background until they finish or
// are paused.
type Control struct {
	pb.UnimplementedControlServer

	base        context.Context
	dir         string // anchors relative paths in deployed YAML
	concurrency int

	mu   sync.Mutex
	runs map[string]context.CancelFunc
	wg   sync.WaitGroup
}

// NewControl ties every deployed run to ctx.
func NewControl(ctx context.Context, dir string, concurrency int) *Control {
	return &Control{
		base:        ctx,
		dir:         dir,
		concurrency: concurrency,
		runs:        map[string]context.CancelFunc{},
	}
}

func (c *Control) Ping(context.Context, *pb.PingRequest) (*pb.PingReply, error) {
	return &pb.PingReply{Status: "ok"}, nil
}

func (c *Control) DeployPipeline(_ context.Context, req *pb.DeployRequest) (*pb.DeployReply, error) {
	r, err := pipeline.CompileBytes([]byte(req.GetYaml()), c.dir)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "compile: %v", err)
	}
	r.SetConcurrency(c.concurrency)

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(c.base)
	c.mu.Lock()
	c.runs[id] = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.forget(id)
		defer r.Close()

		log := logging.L().With("deploy_id", id)
		runID, err := r.RunAll(ctx)
		if err != nil {
			log.Error("deployed run failed", "run_id", runID, "err", err)
			return
		}
		log.Info("deployed run finished", "run_id", runID, "lists", len(r.Names()))
	}()
	return &pb.DeployReply{Id: id}, nil
}

func (c *Control) PausePipeline(_ context.Context, req *pb.PauseRequest) (*pb.PauseReply, error) {
	c.mu.Lock()
	cancel, ok := c.runs[req.GetId()]
	delete(c.runs, req.GetId())
	c.mu.Unlock()
	if ok {
		cancel()
		logging.L().Info("deployed run paused", "deploy_id", req.GetId())
	}
	return &pb.PauseReply{Ok: ok}, nil
}

// Wait blocks until every deployed run has returned.
func (c *Control) Wait() { c.wg.Wait() }

func (c *Control) forget(id string) {
	c.mu.Lock()
	if cancel, ok := c.runs[id]; ok {
		cancel()
		delete(c.runs, id)
	}
	c.mu.Unlock()
}
