package chutes

import "math/rand"

// Dice produce the score of a turn.
type Dice interface {
	// Roll returns the face of every die and their sum.
	Roll() (faces []int, sum int)
	// Max returns the highest sum a roll can produce.
	Max() int
}

// RandomDice are n fair dice with the given number of faces.
type RandomDice struct {
	n     int
	faces int
	rng   *rand.Rand
}

// NewDice returns n dice with faces faces each, rolled with rng.
func NewDice(n, faces int, rng *rand.Rand) *RandomDice {
	if n < 1 {
		n = 1
	}
	if faces < 1 {
		faces = 6
	}
	return &RandomDice{n: n, faces: faces, rng: rng}
}

// Roll implements Dice.
func (d *RandomDice) Roll() ([]int, int) {
	out := make([]int, d.n)
	sum := 0
	for i := range out {
		out[i] = d.rng.Intn(d.faces) + 1
		sum += out[i]
	}
	return out, sum
}

// Max implements Dice.
func (d *RandomDice) Max() int {
	return d.n * d.faces
}

// LoadedDice replay a fixed sequence of single-die rolls, starting over
// when the sequence runs out. They are useful for replays and tests. With
// no rolls loaded every roll scores Max.
type LoadedDice struct {
	Rolls   []int
	Highest int
	next    int
}

// Roll implements Dice.
func (d *LoadedDice) Roll() ([]int, int) {
	if len(d.Rolls) == 0 {
		return []int{d.Max()}, d.Max()
	}
	v := d.Rolls[d.next%len(d.Rolls)]
	d.next++
	return []int{v}, v
}

// Max implements Dice.
func (d *LoadedDice) Max() int {
	if d.Highest == 0 {
		return 6
	}
	return d.Highest
}
