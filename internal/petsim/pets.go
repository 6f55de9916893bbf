package petsim

import (
	"fmt"

	"go.uber.org/zap"
)

// Status is a snapshot of what a pet has been through.
type Status struct {
	Name  string
	Kind  string
	Eaten int
	Slept int
	Naps  int
}

// Pet is a receiver the simulation can report on.
type Pet interface {
	Status() Status
}

// Dog eats everything it is given and counts every nap.
type Dog struct {
	name  string
	eaten int
	slept int
	naps  int
}

func NewDog(name string) *Dog {
	return &Dog{name: name}
}

// Receive makes Dog a hub.Subscriber[Food].
func (d *Dog) Receive(f Food) {
	d.eaten += f.Amount
}

// Sleep is bound to the hub with hub.SubscribeMethod.
func (d *Dog) Sleep(s Sleep) {
	d.slept += s.Time
	d.naps++
}

func (d *Dog) Status() Status {
	return Status{Name: d.name, Kind: KindDog, Eaten: d.eaten, Slept: d.slept, Naps: d.naps}
}

// Cat eats at most its appetite per meal and sleeps twice as long as it is told to.
type Cat struct {
	name     string
	appetite int
	eaten    int
	slept    int
	naps     int
}

func NewCat(name string, appetite int) *Cat {
	return &Cat{name: name, appetite: appetite}
}

// Receive makes Cat a hub.Subscriber[Sleep].
func (c *Cat) Receive(s Sleep) {
	c.slept += 2 * s.Time
	c.naps++
}

// Eat is bound to the hub with hub.SubscribeMethod.
func (c *Cat) Eat(f Food) {
	c.eaten += min(f.Amount, c.appetite)
}

func (c *Cat) Status() Status {
	return Status{Name: c.name, Kind: KindCat, Eaten: c.eaten, Slept: c.slept, Naps: c.naps}
}

// Narrator logs every event it receives. It subscribes to every event type and is
// registered before the pets.
type Narrator struct {
	logger *zap.Logger
	seen   int
}

func NewNarrator(logger *zap.Logger) *Narrator {
	return &Narrator{logger: logger.Named("narrator")}
}

func (n *Narrator) Food(f Food) {
	n.seen++
	n.logger.Info("food served", zap.Int("amount", f.Amount), zap.Int("seen", n.seen))
}

func (n *Narrator) Sleep(s Sleep) {
	n.seen++
	n.logger.Info("lights out", zap.Int("time", s.Time), zap.Int("seen", n.seen))
}

// Seen returns the number of events the narrator received.
func (n *Narrator) Seen() int {
	return n.seen
}

func (s Status) String() string {
	return fmt.Sprintf("%s %s: eaten=%d slept=%d naps=%d", s.Kind, s.Name, s.Eaten, s.Slept, s.Naps)
}
