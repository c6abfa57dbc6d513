package radiostation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listAction drives the Reducer tests: either create a list or append to
// one.
type listAction struct {
	newList bool
	list    int
	text    string
}

func (s *listState) Reduce(a listAction) []listTopic {
	if a.newList {
		s.lists = append(s.lists, nil)
		return []listTopic{topicListCreated}
	}
	s.lists[a.list] = append(s.lists[a.list], a.text)
	return []listTopic{listN(a.list)}
}

// itemTopic exercises derived topics: every per-list topic also announces
// the catch-all.
type itemTopic struct {
	list int
	all  bool
}

func anyItem() itemTopic {
	return itemTopic{all: true}
}

func (t itemTopic) DeriveTopics() []itemTopic {
	if t.all {
		return nil
	}
	return []itemTopic{anyItem()}
}

func Test_HandleWriteNotifiesOwnTopic(t *testing.T) {
	rec := &wakeRecorder{}
	st := newListStation(rec)

	h, err := st.Bind(listN(0))
	require.NoError(t, err)
	other, err := st.Subscribe(listN(1))
	require.NoError(t, err)

	g, err := h.Write()
	require.NoError(t, err)
	g.State().lists = append(g.State().lists, []string{"mine"})
	g.Release()

	assert.Equal(t, 1, rec.count(h.ID()), "a default write announces the handle's own topic")
	assert.Zero(t, rec.count(other))
}

func Test_HandleWriteToOverridesAudience(t *testing.T) {
	rec := &wakeRecorder{}
	st := newListStation(rec)

	h, err := st.Bind(listN(0))
	require.NoError(t, err)
	other, err := st.Subscribe(listN(1))
	require.NoError(t, err)

	g, err := h.WriteTo(listN(1))
	require.NoError(t, err)
	g.Release()

	assert.Zero(t, rec.count(h.ID()), "an overridden write skips the handle's own topic")
	assert.Equal(t, 1, rec.count(other))

	// Empty override: silent write.
	g, err = h.WriteTo()
	require.NoError(t, err)
	g.Release()
	assert.Equal(t, 1, rec.total())
}

func Test_HandleRebindRetargets(t *testing.T) {
	rec := &wakeRecorder{}
	st := newListStation(rec)

	h, err := st.Bind(listN(0))
	require.NoError(t, err)
	require.NoError(t, h.Rebind(listN(5)))
	assert.Equal(t, listN(5), h.Topic())

	g, err := st.Write(listN(0))
	require.NoError(t, err)
	g.Release()
	assert.Zero(t, rec.count(h.ID()), "the old topic no longer reaches the handle")

	g, err = st.Write(listN(5))
	require.NoError(t, err)
	g.Release()
	assert.Equal(t, 1, rec.count(h.ID()))
}

func Test_HandleRebindSameTopicIsIdempotent(t *testing.T) {
	st := newListStation(nil)

	h, err := st.Bind(listN(0))
	require.NoError(t, err)

	require.NoError(t, h.Rebind(listN(0)))
	require.NoError(t, h.Rebind(listN(0)))
	assert.Equal(t, listN(0), h.Topic())

	topic, ok := st.subs.topicOf(h.ID())
	require.True(t, ok)
	assert.Equal(t, listN(0), topic)
}

func Test_HandleWriteHonorsStationRebind(t *testing.T) {
	// The host may rebind through the station's inbound boundary; the
	// handle's next default write must follow the registry, not a stale
	// cache.
	rec := &wakeRecorder{}
	st := newListStation(rec)

	h, err := st.Bind(listN(0))
	require.NoError(t, err)
	watcher, err := st.Subscribe(listN(7))
	require.NoError(t, err)
	require.NoError(t, st.Rebind(h.ID(), listN(7)))

	g, err := h.Write()
	require.NoError(t, err)
	g.Release()

	assert.Equal(t, 1, rec.count(h.ID()))
	assert.Equal(t, 1, rec.count(watcher))
}

func Test_HandleRebindAfterStationRebind(t *testing.T) {
	// The registry is authoritative: a host-side rebind shows through
	// Topic, and a consumer-side rebind back to its original topic must
	// take effect rather than short-circuit on a stale view.
	rec := &wakeRecorder{}
	st := newListStation(rec)

	h, err := st.Bind(listN(0))
	require.NoError(t, err)

	require.NoError(t, st.Rebind(h.ID(), listN(7)))
	assert.Equal(t, listN(7), h.Topic())

	require.NoError(t, h.Rebind(listN(0)))
	assert.Equal(t, listN(0), h.Topic())

	g, err := h.Write()
	require.NoError(t, err)
	g.Release()
	assert.Equal(t, 1, rec.count(h.ID()), "the default write follows the restored binding")

	g, err = st.Write(listN(7))
	require.NoError(t, err)
	g.Release()
	assert.Equal(t, 1, rec.count(h.ID()), "the abandoned topic no longer reaches the handle")
}

func Test_HandleDispose(t *testing.T) {
	rec := &wakeRecorder{}
	st := newListStation(rec)

	h, err := st.Bind(listN(0))
	require.NoError(t, err)
	require.NoError(t, h.Dispose())

	g, err := st.Write(listN(0))
	require.NoError(t, err)
	g.Release()
	assert.Zero(t, rec.total(), "a disposed handle receives nothing")

	err = h.Dispose()
	assert.ErrorIs(t, err, ErrUnknownSubscriber, "the second dispose is a lifecycle bug and says so")

	_, err = h.Read()
	assert.ErrorIs(t, err, ErrUnknownSubscriber)
	_, err = h.Write()
	assert.ErrorIs(t, err, ErrUnknownSubscriber)
	err = h.Rebind(listN(1))
	assert.ErrorIs(t, err, ErrUnknownSubscriber)
}

func Test_ApplyReducer(t *testing.T) {
	rec := &wakeRecorder{}
	st := newListStation(rec)

	creator, err := st.Bind(topicListCreated)
	require.NoError(t, err)
	watcher, err := st.Subscribe(listN(0))
	require.NoError(t, err)

	require.NoError(t, Apply(creator, listAction{newList: true}))
	assert.Equal(t, 1, rec.count(creator.ID()), "creating a list announces the creation topic")
	assert.Zero(t, rec.count(watcher))

	require.NoError(t, Apply(creator, listAction{list: 0, text: "x"}))
	assert.Equal(t, 1, rec.count(creator.ID()), "appending announces only the list's own topic")
	assert.Equal(t, 1, rec.count(watcher))

	r, err := st.Read()
	require.NoError(t, err)
	defer r.Release()
	assert.Equal(t, [][]string{{"x"}}, r.State().lists)
}

func Test_ApplyWithoutReducer(t *testing.T) {
	st := New[int, listTopic](func() int { return 0 }, nil)

	h, err := st.Bind(topicListCreated)
	require.NoError(t, err)

	err = Apply(h, listAction{newList: true})
	require.Error(t, err, "a state type without a matching Reduce method is a programming error")

	// The failed apply must not leave the write lock held.
	g, err := st.Write()
	require.NoError(t, err)
	g.Release()
}

func Test_DerivedTopicsAnnounceCatchAll(t *testing.T) {
	rec := &wakeRecorder{}
	st := New[listState, itemTopic](func() listState { return listState{} }, rec)

	item, err := st.Subscribe(itemTopic{list: 2})
	require.NoError(t, err)
	all, err := st.Subscribe(anyItem())
	require.NoError(t, err)
	bystander, err := st.Subscribe(itemTopic{list: 3})
	require.NoError(t, err)

	g, err := st.Write(itemTopic{list: 2})
	require.NoError(t, err)
	g.Release()

	assert.Equal(t, 1, rec.count(item))
	assert.Equal(t, 1, rec.count(all), "the derived catch-all rides along with the item topic")
	assert.Zero(t, rec.count(bystander))

	// Announcing the catch-all directly does not fan back out to items.
	g, err = st.Write(anyItem())
	require.NoError(t, err)
	g.Release()

	assert.Equal(t, 1, rec.count(item))
	assert.Equal(t, 2, rec.count(all))
}
