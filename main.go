package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2/app"
	"github.com/gorilla/websocket"

	"InkBoard/internal/config"
	"InkBoard/internal/doc"
	"InkBoard/internal/logging"
	inknet "InkBoard/internal/net"
	"InkBoard/internal/ui"
)

// defaultContent is shown when no document is opened.
const defaultContent = `
<p>Text above</p>
<div data-type="drawing"></div>
<p>Text below</p>
`

func main() {
	var (
		configPath = flag.String("config", "inkboard.toml", "configuration file")
		verbose    = flag.Bool("v", false, "verbose engine logging")
		open       = flag.String("open", "", "document to open (.html, .json or .cbor)")
		save       = flag.String("save", "", "write the document here when the window closes")
		browse     = flag.Bool("browse", false, "list command bridges on the local network and exit")
		send       = flag.String("send", "", "send one action to the bridge at this ws:// URL and exit")
	)
	flag.Parse()

	if *browse {
		runBrowse()
		return
	}
	if *send != "" {
		runSend(*send, flag.Args())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}
	if *verbose || cfg.Verbose {
		logging.SetLogger(slog.Default())
	}
	runHost(cfg, *open, *save)
}

func runHost(cfg config.Config, open, save string) {
	log.Println("[HOST] Starting InkBoard")
	d, err := loadDocument(open)
	if err != nil {
		log.Fatalf("[HOST] Could not open %s: %v", open, err)
	}
	log.Printf("[HOST] Document has %d blocks", d.Len())

	h := ui.NewApp(app.New(), cfg, d)
	if cfg.Bridge.Enabled {
		startBridge(cfg.Bridge, h)
	}
	if save != "" {
		h.Window().SetOnClosed(func() {
			if err := saveDocument(save, d); err != nil {
				log.Printf("[HOST] Save failed: %v", err)
				return
			}
			log.Printf("[HOST] Saved document to %s", save)
		})
	}
	h.Run()
}

func startBridge(cfg config.Bridge, h *ui.App) {
	bridge := inknet.NewBridge(h.Registry, h.Post)
	h.Editor.Document().Subscribe(func(doc.Change) {
		ev := inknet.Event{Event: "changed", Version: h.Editor.Document().Version()}
		go bridge.Broadcast(ev)
	})

	mux := http.NewServeMux()
	mux.Handle(inknet.BridgePath, bridge)
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Fatalf("[BRIDGE] Failed to listen on %s: %v", cfg.Addr, err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	log.Printf("[BRIDGE] Listening on %s", inknet.BridgeURL(port))
	go func() {
		if err := http.Serve(listener, mux); err != nil {
			log.Printf("[BRIDGE] Server stopped: %v", err)
		}
	}()

	if cfg.Advertise {
		server, err := inknet.Advertise(port)
		if err != nil {
			log.Printf("[MDNS] %v", err)
			return
		}
		log.Printf("[MDNS] Advertising %s on port %d", inknet.ServiceType, port)
		h.Window().SetCloseIntercept(func() {
			server.Shutdown()
			bridge.Close()
			h.Window().Close()
		})
	}
}

func loadDocument(path string) (*doc.Document, error) {
	if path == "" {
		return doc.ParseHTML(strings.NewReader(defaultContent))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return doc.ParseHTML(f)
	case ".cbor":
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return doc.DecodeCBOR(data)
	default:
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return doc.DecodeJSON(data)
	}
}

func saveDocument(path string, d *doc.Document) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := doc.WriteHTML(f, d); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case ".cbor":
		data, err = doc.EncodeCBOR(d)
	default:
		data, err = doc.EncodeJSON(d)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func runBrowse() {
	log.Printf("[MDNS] Looking for %s", inknet.ServiceType)
	err := inknet.Browse(func(addr string) {
		fmt.Printf("ws://%s%s\n", addr, inknet.BridgePath)
	})
	if err != nil {
		log.Fatalf("[MDNS] %v", err)
	}
}

// runSend sends args[0] with the remaining args as JSON values, or as
// strings when they are not valid JSON.
func runSend(url string, args []string) {
	if len(args) == 0 {
		log.Fatal("[CLIENT] Missing action")
	}
	req := inknet.Request{ID: json.RawMessage(`"cli"`), Action: args[0]}
	for _, a := range args[1:] {
		raw := json.RawMessage(a)
		if !json.Valid(raw) {
			raw, _ = json.Marshal(a)
		}
		req.Args = append(req.Args, raw)
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("[CLIENT] Connection failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(req); err != nil {
		log.Fatalf("[CLIENT] Send failed: %v", err)
	}
	for {
		var resp inknet.Response
		if err := conn.ReadJSON(&resp); err != nil {
			log.Fatalf("[CLIENT] Read failed: %v", err)
		}
		if resp.ID == nil {
			continue
		}
		fmt.Printf("%s ok=%v %s\n", req.Action, resp.OK, resp.Error)
		return
	}
}
