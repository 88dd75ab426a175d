package genealogy_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/genealogy"
)

const family = `0 @I1@ INDI
1 NAME John /Smith/
1 SEX M
0 @I2@ INDI
1 NAME Jane /Doe/
1 SEX F
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
1 CHIL @I4@
0 @I3@ INDI
1 NAME Jim /Smith/
`

func ExampleBuild() {
	doc, _ := gedcom.Parse(strings.NewReader(family), gedcom.Options{})
	c := diag.NewCollector()
	g := genealogy.FromStore(doc.Store(), genealogy.BuildOptions{Diagnostics: c})

	jim, _ := g.Individual("I3")
	father, _ := g.Father(jim)
	mother, _ := g.Mother(jim)
	fmt.Println("Father:", father.DisplayName())
	fmt.Println("Mother:", mother.DisplayName())
	for _, s := range father.Spouses() {
		fmt.Println("Spouse in", s.FamilyID+":", s.SpouseID)
	}
	for _, d := range c.All() {
		fmt.Println(d)
	}
	// Output:
	// Father: John Smith
	// Mother: Jane Doe
	// Spouse in F1: I2
	// dangling-reference: family F1 references missing child I4
}

func ExampleGraph_AncestorsOf() {
	doc, _ := gedcom.Parse(strings.NewReader(family), gedcom.Options{})
	g := genealogy.FromStore(doc.Store(), genealogy.BuildOptions{})

	line, _ := g.AncestorsOf("I3", genealogy.ModeBreadthFirst)
	for _, ind := range line {
		fmt.Println(ind.ID, ind.DisplayName())
	}
	// Output:
	// I3 Jim Smith
	// I1 John Smith
	// I2 Jane Doe
}
