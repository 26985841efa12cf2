// krk-server serves the collaborator-facing query API of spec.md §6 over WebSocket, so
// an external UI (out of scope here per spec.md §1) can drive playback by repeatedly
// querying the best move and applying it.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/anbotka/krktable/pkg/query/wsserver"
	"github.com/anbotka/krktable/pkg/tablebase"
	"github.com/anbotka/krktable/pkg/tablebase/store"
	"github.com/seekerror/logw"
)

var (
	in   = flag.String("tb", "krk.tb", "Path to the tablebase artifact")
	addr = flag.String("addr", ":8080", "Listen address")
	path = flag.String("path", "/krk", "WebSocket endpoint path")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: krk-server [options]

krk-server loads a tablebase artifact and serves setup/legal_moves/apply/query
requests (spec.md §6) over WebSocket.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	logw.Infof(ctx, "%v loading tablebase from %v", tablebase.Version(), *in)
	fs, err := store.OpenFileStore(*in)
	if err != nil {
		logw.Exitf(ctx, "Failed to open tablebase %v: %v", *in, err)
	}
	logw.Infof(ctx, "Loaded %v entries; serving %v protocol on %v%v", fs.Len(), wsserver.ProtocolName, *addr, *path)

	mux := http.NewServeMux()
	mux.Handle(*path, wsserver.NewServer(fs))

	if err := http.ListenAndServe(*addr, mux); err != nil {
		logw.Exitf(ctx, "Server failed: %v", err)
	}
}
