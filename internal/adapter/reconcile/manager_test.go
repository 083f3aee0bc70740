//go:build unit

package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang-ifupdown/internal/mock"
	"golang-ifupdown/internal/pkg/convergence"
	"golang-ifupdown/internal/pkg/iface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"go.uber.org/mock/gomock"
)

// memoryStore keeps live configurations in memory.
type memoryStore struct {
	mu       sync.Mutex
	live     *iface.Config
	applyErr error
	applies  int
}

func (s *memoryStore) Observe(ctx context.Context, desired *iface.Config) (*iface.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live, nil
}

func (s *memoryStore) Apply(ctx context.Context, desired *iface.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applies++
	if s.applyErr != nil {
		return s.applyErr
	}
	s.live = desired
	return nil
}

func (s *memoryStore) set(c *iface.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = c
}

func (s *memoryStore) appliedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applies
}

func mustConfig(t *testing.T, raw map[string]interface{}) *iface.Config {
	t.Helper()
	c, err := iface.New(raw)
	require.NoError(t, err)
	return c
}

func TestNewManager(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	networkMgr := mock.NewMockNetworkManager(ctrl)
	desired := mustConfig(t, map[string]interface{}{"name": "swp1"})

	t.Run("DefaultInterval", func(t *testing.T) {
		manager, err := NewManager(desired, &memoryStore{}, networkMgr, 0)
		require.NoError(t, err)
		assert.Equal(t, "swp1", manager.GetInterfaceName())
		assert.Equal(t, DefaultInterval, manager.interval)
		assert.Equal(t, convergence.InSync, manager.LastStatus())
	})

	t.Run("MissingConfig", func(t *testing.T) {
		_, err := NewManager(nil, &memoryStore{}, networkMgr, time.Second)
		assert.Error(t, err)
	})
}

func TestManager_Converge(t *testing.T) {
	ctx := context.Background()
	desired := mustConfig(t, map[string]interface{}{"name": "swp1", "mtu": 9000, "vids": []interface{}{10, 20}})

	t.Run("OutOfSyncThenInSync", func(t *testing.T) {
		store := &memoryStore{live: mustConfig(t, map[string]interface{}{"name": "swp1", "mtu": 1500, "vids": []interface{}{10, 20}})}
		manager, err := NewManager(desired, store, nil, time.Second)
		require.NoError(t, err)

		status, err := manager.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, convergence.OutOfSync, status)

		status, err = manager.Converge(ctx)
		require.NoError(t, err)
		assert.Equal(t, convergence.InSync, status)
		assert.Equal(t, 1, store.appliedCount())
	})

	t.Run("ApplyFailure", func(t *testing.T) {
		store := &memoryStore{applyErr: errors.New("disk full")}
		manager, err := NewManager(desired, store, nil, time.Second)
		require.NoError(t, err)

		status, err := manager.Converge(ctx)
		assert.ErrorIs(t, err, convergence.ErrApplyFailed)
		assert.Equal(t, convergence.OutOfSync, status)
		assert.Equal(t, convergence.OutOfSync, manager.LastStatus())
	})
}

func TestManager_checkAndRepairConfiguration(t *testing.T) {
	ctx := context.Background()
	desired := mustConfig(t, map[string]interface{}{"name": "swp1", "mtu": 9000})

	t.Run("InSyncDoesNotApply", func(t *testing.T) {
		store := &memoryStore{live: mustConfig(t, desired.Attributes())}
		manager, err := NewManager(desired, store, nil, time.Second)
		require.NoError(t, err)

		require.NoError(t, manager.checkAndRepairConfiguration(ctx))
		assert.Zero(t, store.appliedCount())
	})

	t.Run("DriftIsRepaired", func(t *testing.T) {
		store := &memoryStore{live: mustConfig(t, map[string]interface{}{"name": "swp1", "mtu": 1500})}
		manager, err := NewManager(desired, store, nil, time.Second)
		require.NoError(t, err)

		require.NoError(t, manager.checkAndRepairConfiguration(ctx))
		assert.Equal(t, 1, store.appliedCount())
		assert.Equal(t, convergence.InSync, manager.LastStatus())
	})

	t.Run("RepairFailure", func(t *testing.T) {
		store := &memoryStore{applyErr: errors.New("disk full")}
		manager, err := NewManager(desired, store, nil, time.Second)
		require.NoError(t, err)

		err = manager.checkAndRepairConfiguration(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to reapply configuration")
	})
}

func TestManager_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	networkMgr := mock.NewMockNetworkManager(ctrl)
	networkMgr.EXPECT().
		GetLinkByName("swp1").
		Return(&netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: 3, Name: "swp1", MTU: 9000}}, nil)

	desired := mustConfig(t, map[string]interface{}{"name": "swp1", "mtu": 9000})
	store := &memoryStore{}

	manager, err := NewManager(desired, store, networkMgr, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- manager.Run(ctx) }()

	// Initial convergence writes the missing stanza.
	require.Eventually(t, func() bool { return store.appliedCount() == 1 }, time.Second, 5*time.Millisecond)

	// Out-of-band change is repaired on a later tick.
	store.set(mustConfig(t, map[string]interface{}{"name": "swp1", "mtu": 1500}))
	require.Eventually(t, func() bool { return store.appliedCount() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestManager_LinkPresent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	networkMgr := mock.NewMockNetworkManager(ctrl)
	desired := mustConfig(t, map[string]interface{}{"name": "vlan10"})

	manager, err := NewManager(desired, &memoryStore{}, networkMgr, time.Second)
	require.NoError(t, err)

	t.Run("Missing", func(t *testing.T) {
		networkMgr.EXPECT().GetLinkByName("vlan10").Return(nil, errors.New("link not found"))
		assert.False(t, manager.LinkPresent())
	})

	t.Run("Present", func(t *testing.T) {
		networkMgr.EXPECT().
			GetLinkByName("vlan10").
			Return(&netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: 7, Name: "vlan10", MTU: 1500}}, nil)
		assert.True(t, manager.LinkPresent())
	})

	t.Run("NoNetworkManager", func(t *testing.T) {
		unchecked, err := NewManager(desired, &memoryStore{}, nil, time.Second)
		require.NoError(t, err)
		assert.True(t, unchecked.LinkPresent())
	})
}
