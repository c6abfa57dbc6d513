package main

import (
	"fmt"
	"os"
	"sync"

	radio "github.com/jonoton/go-radiostation"
	"github.com/rs/zerolog"
)

// Data is a small UI model: a growable list of lists.
type Data struct {
	Lists [][]string
}

// Topic identifies what part of Data a consumer cares about.
type Topic struct {
	Kind string
	List int
}

func ListCreated() Topic { return Topic{Kind: "created"} }

func ListItem(n int) Topic { return Topic{Kind: "item", List: n} }

func AnyListItem() Topic { return Topic{Kind: "any-item"} }

// DeriveTopics makes every item-level update also announce the catch-all.
func (t Topic) DeriveTopics() []Topic {
	if t.Kind == "item" {
		return []Topic{AnyListItem()}
	}
	return nil
}

// Action mutates Data through the reducer; each action selects the topics
// announced for it.
type Action struct {
	NewList bool
	List    int
	Text    string
}

func (d *Data) Reduce(a Action) []Topic {
	if a.NewList {
		d.Lists = append(d.Lists, nil)
		return []Topic{ListCreated()}
	}
	d.Lists[a.List] = append(d.Lists[a.List], a.Text)
	return []Topic{ListItem(a.List)}
}

// host is a toy scheduler: it maps subscriber ids to consumer closures and
// reruns them synchronously on wake.
type host struct {
	mu        sync.Mutex
	consumers map[radio.SubscriberID]func()
}

func newHost() *host {
	return &host{consumers: make(map[radio.SubscriberID]func())}
}

func (h *host) Wake(id radio.SubscriberID) {
	h.mu.Lock()
	rerun := h.consumers[id]
	h.mu.Unlock()
	if rerun != nil {
		rerun()
	}
}

// mount registers a consumer for topic and runs it once, the way a UI host
// executes a component when it enters the tree.
func (h *host) mount(station *radio.Station[Data, Topic], topic Topic, render func(handle *radio.Handle[Data, Topic])) *radio.Handle[Data, Topic] {
	handle, err := station.Bind(topic)
	if err != nil {
		panic(err)
	}
	h.mu.Lock()
	h.consumers[handle.ID()] = func() { render(handle) }
	h.mu.Unlock()
	render(handle)
	return handle
}

func main() {
	sched := newHost()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)

	var scope radio.Scope[Data, Topic]
	station, err := scope.Init(func() Data { return Data{} }, sched, radio.WithLogger(log))
	if err != nil {
		panic(err)
	}
	defer scope.Teardown()

	// A consumer that watches list creation.
	creator := sched.mount(station, ListCreated(), func(h *radio.Handle[Data, Topic]) {
		r, err := h.Read()
		if err != nil {
			panic(err)
		}
		defer r.Release()
		fmt.Printf("(creator) rerun: %d list(s)\n", len(r.State().Lists))
	})
	defer creator.Dispose()

	// A consumer that watches any item change anywhere.
	observer := sched.mount(station, AnyListItem(), func(h *radio.Handle[Data, Topic]) {
		r, err := h.Read()
		if err != nil {
			panic(err)
		}
		defer r.Release()
		fmt.Printf("(observer) rerun: %v\n", r.State().Lists)
	})
	defer observer.Dispose()

	fmt.Println("\n--- Creating two lists ---")
	mustApply(creator, Action{NewList: true})
	mustApply(creator, Action{NewList: true})

	// Per-list consumers come up once their lists exist.
	list0 := sched.mount(station, ListItem(0), func(h *radio.Handle[Data, Topic]) {
		r, err := h.Read()
		if err != nil {
			panic(err)
		}
		defer r.Release()
		fmt.Printf("(list 0) rerun: %v\n", r.State().Lists[0])
	})
	defer list0.Dispose()

	list1 := sched.mount(station, ListItem(1), func(h *radio.Handle[Data, Topic]) {
		r, err := h.Read()
		if err != nil {
			panic(err)
		}
		defer r.Release()
		fmt.Printf("(list 1) rerun: %v\n", r.State().Lists[1])
	})
	defer list1.Dispose()

	fmt.Println("\n--- Appending to list 0 (wakes list 0 + observer, not list 1) ---")
	mustApply(list0, Action{List: 0, Text: "Hello"})

	fmt.Println("\n--- Appending to list 1 (wakes list 1 + observer, not list 0) ---")
	mustApply(list1, Action{List: 1, Text: "World"})

	fmt.Println("\n--- Silent bookkeeping write (wakes no one) ---")
	g, err := station.Write()
	if err != nil {
		panic(err)
	}
	g.State().Lists[0] = append(g.State().Lists[0], "(quietly)")
	g.Release()

	r, err := station.Read()
	if err != nil {
		panic(err)
	}
	fmt.Printf("\nFinal state: %v\n", r.State().Lists)
	r.Release()
}

func mustApply(h *radio.Handle[Data, Topic], a Action) {
	if err := radio.Apply(h, a); err != nil {
		panic(err)
	}
}
