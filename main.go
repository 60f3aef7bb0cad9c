package main

import (
	"fmt"
	"os"

	"github.com/jtwatson/htmldom/parser"
	"github.com/sirupsen/logrus"
)

func main() {
	if os.Getenv("HTMLDOM_DEBUG") != "" {
		logrus.SetLevel(logrus.TraceLevel)
	}

	in := os.Stdin
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			logrus.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	root, err := parser.ParseReader(in)
	if err != nil {
		logrus.Fatal(err)
	}
	fmt.Println(root)
}
