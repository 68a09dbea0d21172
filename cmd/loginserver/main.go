// Command loginserver is the standalone HTTP collaborator described in the
// external interfaces: it serves the region-suffixed server list and answers
// the auth form post, mirroring almetica-login-server.rs's warp routes with
// net/http (the teacher pulls in no third-party HTTP router; minewire's own
// http.HandleFunc/http.ListenAndServe subscription server is the pack's only
// grounding for an HTTP surface, so this command follows it instead).
package main

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/teraserver/gamecore/config"
)

// sortedField and namedField hold an attribute plus chardata on a single
// element (e.g. <category sort="1">Almetica</category>), which
// encoding/xml cannot express as a flat `parent>child,attr` tag — that
// combination is only valid when the parent path names an element, not
// when the leaf also carries character data.
type sortedField struct {
	Sort  int    `xml:"sort,attr"`
	Value string `xml:",chardata"`
}

type namedField struct {
	RawName string `xml:"raw_name,attr"`
	Value   string `xml:",chardata"`
}

type serverListEntry struct {
	ID             int         `xml:"id"`
	IP             string      `xml:"ip"`
	Port           int         `xml:"port"`
	Category       sortedField `xml:"category"`
	Name           namedField  `xml:"name"`
	Crowdness      sortedField `xml:"crowdness"`
	Open           sortedField `xml:"open"`
	PermissionMask string      `xml:"permission_mask"`
	ServerStat     string      `xml:"server_stat"`
	Popup          string      `xml:"popup"`
	Language       string      `xml:"language"`
}

type serverList struct {
	XMLName xml.Name          `xml:"serverlist"`
	Servers []serverListEntry `xml:"server"`
}

type charsPerServer struct {
	ID        int    `json:"id"`
	CharCount uint32 `json:"char_count"`
}

type authResponse struct {
	LastConnectedServerID int              `json:"last_connected_server_id"`
	CharsPerServer        []charsPerServer `json:"chars_per_server"`
	AccountBits           string           `json:"account_bits"`
	ResultMessage         string           `json:"result-message"`
	ResultCode            int              `json:"result-code"`
	AccessLevel           int              `json:"access_level"`
	UserPermission        int              `json:"user_permission"`
	GameAccountName       string           `json:"game_account_name"`
	MasterAccountName     string           `json:"master_account_name"`
	Ticket                string           `json:"ticket"`
}

func main() {
	logger := slog.Default()

	configPath := "server.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/server/list"+cfg.RegionSuffix, handleServerList)
	mux.HandleFunc("/auth", handleAuth)

	logger.Info("login server listening", "address", cfg.LoginListenAddress, "region_suffix", cfg.RegionSuffix)
	if err := http.ListenAndServe(cfg.LoginListenAddress, logRequests(logger, mux)); err != nil {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func handleServerList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	list := serverList{
		Servers: []serverListEntry{
			{
				ID:             1,
				IP:             "127.0.0.1",
				Port:           10001,
				Category:       sortedField{Sort: 1, Value: "Almetica"},
				Name:           namedField{RawName: "Almetica", Value: " Almetica "},
				Crowdness:      sortedField{Sort: 1, Value: "None"},
				Open:           sortedField{Sort: 1, Value: "Recommended"},
				PermissionMask: "0x00000000",
				ServerStat:     "0x00000000",
				Popup:          " This server isn't up yet! ",
				Language:       "en",
			},
		},
	}

	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprint(w, xml.Header)
	if err := xml.NewEncoder(w).Encode(list); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func handleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	// TODO proper auth handling; this reference implementation accepts any
	// credentials, matching almetica-login-server.rs's own placeholder.
	resp := authResponse{
		LastConnectedServerID: 4001,
		CharsPerServer:        []charsPerServer{},
		AccountBits:           "0x00000000",
		ResultMessage:         "OK",
		ResultCode:            200,
		AccessLevel:           1,
		UserPermission:        0,
		GameAccountName:       "TERA",
		MasterAccountName:     uuid.New().String(),
		Ticket:                uuid.New().String() + uuid.New().String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
