// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package liquid_test

import (
	"fmt"
	"log"
	"os"

	"github.com/liquidgo/liquid"
)

func ExampleParse() {
	template, err := liquid.Parse(`{% for p in products %}{{ p.title | upcase }}{% unless forloop.last %}, {% endunless %}{% endfor %}`, nil)
	if err != nil {
		log.Fatal(err)
	}
	products := []interface{}{
		map[string]interface{}{"title": "shirt"},
		map[string]interface{}{"title": "hat"},
	}
	err = template.Run(os.Stdout, map[string]interface{}{"products": products}, nil)
	if err != nil {
		log.Fatal(err)
	}
	// Output:
	// SHIRT, HAT
}

func ExampleBuildTemplate() {
	fsys := liquid.MapFS{
		"index": `<ul>{% render 'item' for items as item %}</ul>`,
		"item":  `<li>{{ forloop.index }}. {{ item }}</li>`,
	}
	template, err := liquid.BuildTemplate(fsys, "index", nil)
	if err != nil {
		log.Fatal(err)
	}
	out, err := template.Render(map[string]interface{}{"items": []interface{}{"a", "b"}}, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
	// Output:
	// <ul><li>1. a</li><li>2. b</li></ul>
}

func ExampleRunOptions_renderErrorsInline() {
	template, err := liquid.Parse(`{{ 10 | divided_by: n }} items`, nil)
	if err != nil {
		log.Fatal(err)
	}
	out, err := template.Render(map[string]interface{}{"n": 0}, &liquid.RunOptions{RenderErrorsInline: true})
	fmt.Println(out)
	fmt.Println(err)
	// Output:
	// Liquid error (line 1): divided by 0 items
	// Liquid error (line 1): divided by 0
}
