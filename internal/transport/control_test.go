package transport

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	pb "lister/api/proto/v1"
	"lister/source/fetch"
)

// blockingDriver parks every fetch until its context is cancelled.
type blockingDriver struct{ started chan struct{} }

func (b *blockingDriver) Configure(fetch.Config) error { return nil }
func (b *blockingDriver) Fetch(ctx context.Context, _ fetch.Request) (string, error) {
	close(b.started)
	<-ctx.Done()
	return "", ctx.Err()
}
func (b *blockingDriver) Close() error { return nil }

func dialBuf(t *testing.T, ctl *Control) pb.ControlClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(lis, ctl)
	go func() { _ = srv.Serve() }()
	t.Cleanup(srv.Stop)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })
	return pb.NewControlClient(cc)
}

func TestControl_Ping(t *testing.T) {
	cli := dialBuf(t, NewControl(context.Background(), t.TempDir(), 1))
	rep, err := cli.Ping(context.Background(), &pb.PingRequest{})
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if rep.GetStatus() != "ok" {
		t.Fatalf("want ok, got %q", rep.GetStatus())
	}
}

func TestControl_DeployRunsLists(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "words.txt"), []byte("a b c"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctl := NewControl(context.Background(), dir, 2)
	cli := dialBuf(t, ctl)

	yml := `source: { driver: file }
lists:
  - name: words
    url: ` + filepath.Join(dir, "words.txt") + `
    transforms:
      - split: { delimiter: " " }
sinks: [file]
sink_configs:
  file: { dir: ` + filepath.Join(dir, "out") + ` }
`
	rep, err := cli.DeployPipeline(context.Background(), &pb.DeployRequest{Yaml: yml})
	if err != nil {
		t.Fatalf("DeployPipeline: %v", err)
	}
	if rep.GetId() == "" {
		t.Fatal("expected deploy id")
	}
	ctl.Wait()

	got, err := os.ReadFile(filepath.Join(dir, "out", "words"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "a\nb\nc\n" {
		t.Fatalf("unexpected output %q", got)
	}

	// finished runs are no longer pausable
	p, err := cli.PausePipeline(context.Background(), &pb.PauseRequest{Id: rep.GetId()})
	if err != nil || p.GetOk() {
		t.Fatalf("pause after finish: ok=%v err=%v", p.GetOk(), err)
	}
}

func TestControl_DeployInvalidYAML(t *testing.T) {
	cli := dialBuf(t, NewControl(context.Background(), t.TempDir(), 1))
	_, err := cli.DeployPipeline(context.Background(), &pb.DeployRequest{Yaml: "lists:\n  - name: a\n    url: u\n    transforms:\n      - upper: {}\n"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("want InvalidArgument, got %v", err)
	}
}

func TestControl_PauseCancelsRun(t *testing.T) {
	drv := &blockingDriver{started: make(chan struct{})}
	fetch.Register("blocking", func() fetch.Adapter { return drv })

	ctl := NewControl(context.Background(), t.TempDir(), 1)
	cli := dialBuf(t, ctl)

	rep, err := cli.DeployPipeline(context.Background(), &pb.DeployRequest{
		Yaml: "source: { driver: blocking }\nlists:\n  - { name: slow, url: x }\n",
	})
	if err != nil {
		t.Fatalf("DeployPipeline: %v", err)
	}
	select {
	case <-drv.started:
	case <-time.After(5 * time.Second):
		t.Fatal("run never started")
	}

	p, err := cli.PausePipeline(context.Background(), &pb.PauseRequest{Id: rep.GetId()})
	if err != nil || !p.GetOk() {
		t.Fatalf("pause: ok=%v err=%v", p.GetOk(), err)
	}
	ctl.Wait()

	p, err = cli.PausePipeline(context.Background(), &pb.PauseRequest{Id: "unknown"})
	if err != nil || p.GetOk() {
		t.Fatalf("pause unknown: ok=%v err=%v", p.GetOk(), err)
	}
}

func TestDial_TCP(t *testing.T) {
	srv, err := StartServer(0, NewControl(context.Background(), t.TempDir(), 1))
	if err != nil {
		t.Fatalf("StartServer: %v", err)
	}
	go func() { _ = srv.Serve() }()
	defer srv.Stop()

	port := srv.Addr().(*net.TCPAddr).Port
	cli, cc, err := Dial(port)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer cc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rep, err := cli.Ping(ctx, &pb.PingRequest{})
	if err != nil || rep.GetStatus() != "ok" {
		t.Fatalf("Ping: %q %v", rep.GetStatus(), err)
	}
}
