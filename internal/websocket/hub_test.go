package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paisawise/internal/auth"
	"paisawise/internal/logger"
	"paisawise/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
)

var testSecret = []byte("ws-secret")

func startServer(t *testing.T, actors map[uuid.UUID]auth.Actor) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.Discard())
	go hub.Run(ctx)

	resolve := func(_ context.Context, userID uuid.UUID) (auth.Actor, error) {
		a, ok := actors[userID]
		if !ok {
			return auth.Actor{}, errors.New("unknown user")
		}
		return a, nil
	}

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		ServeWs(hub, c, testSecret, resolve)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, userID uuid.UUID) (*gorilla.Conn, *http.Response, error) {
	t.Helper()
	token, err := auth.IssueToken(testSecret, userID, "tester", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	return gorilla.DefaultDialer.Dial(url, nil)
}

func waitForClients(t *testing.T, hub *Hub, orgID uuid.UUID, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount(orgID) != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount(%s) = %d, want %d", orgID, hub.ClientCount(orgID), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func member(orgID uuid.UUID) auth.Actor {
	return auth.Actor{
		UserID:         uuid.New(),
		OrganizationID: orgID,
		MembershipID:   uuid.New(),
		Roles:          []string{model.RoleMember},
	}
}

func TestRevalidateReachesOnlySameOrganization(t *testing.T) {
	orgA, orgB := uuid.New(), uuid.New()
	alice, bob := member(orgA), member(orgB)
	hub, srv := startServer(t, map[uuid.UUID]auth.Actor{alice.UserID: alice, bob.UserID: bob})

	connA, _, err := dial(t, srv, alice.UserID)
	if err != nil {
		t.Fatalf("dial alice: %v", err)
	}
	defer connA.Close()
	connB, _, err := dial(t, srv, bob.UserID)
	if err != nil {
		t.Fatalf("dial bob: %v", err)
	}
	defer connB.Close()

	waitForClients(t, hub, orgA, 1)
	waitForClients(t, hub, orgB, 1)

	hub.Revalidate(orgA, "/dashboard/balancesheet")

	_ = connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := connA.ReadMessage()
	if err != nil {
		t.Fatalf("read alice: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := Event{Type: "revalidate", OrganizationID: orgA.String(), Path: "/dashboard/balancesheet"}
	if ev != want {
		t.Fatalf("event = %+v, want %+v", ev, want)
	}

	_ = connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := connB.ReadMessage(); err == nil {
		t.Fatal("client of another organization received the event")
	}
}

func TestServeWsRejects(t *testing.T) {
	pending := auth.Actor{UserID: uuid.New(), OrganizationID: uuid.New(), Roles: []string{model.RoleRequest}}
	_, srv := startServer(t, map[uuid.UUID]auth.Actor{pending.UserID: pending})

	if _, resp, err := dial(t, srv, uuid.New()); err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown user: err = %v, resp = %v, want 401", err, resp)
	}
	if _, resp, err := dial(t, srv, pending.UserID); err == nil || resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("pending member: err = %v, resp = %v, want 403", err, resp)
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if _, resp, err := gorilla.DefaultDialer.Dial(url, nil); err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: err = %v, want 401", err)
	}
}

func TestRevalidateDropsWhenQueueFull(t *testing.T) {
	hub := NewHub(logger.Discard())
	orgID := uuid.New()
	// Run is not started, so nothing drains the queue.
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.Revalidate(orgID, "/dashboard/cash-flow")
	}
	if len(hub.broadcast) != cap(hub.broadcast) {
		t.Fatalf("queue length = %d, want %d", len(hub.broadcast), cap(hub.broadcast))
	}
}
