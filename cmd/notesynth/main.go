// Command notesynth renders note scores to WAV files.
package main

func main() {
	Execute()
}
