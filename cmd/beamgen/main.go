// Command beamgen generates parametric precast bridge beams from a
// parameter file.
package main

func main() {
	Execute()
}
