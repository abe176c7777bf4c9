// Package report 将计算结果渲染为终端表格，仅用于展示。
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wyfcoding/probkit/conjugate"
	"github.com/wyfcoding/probkit/distribution"
	"github.com/wyfcoding/probkit/enumerate"
	"github.com/wyfcoding/probkit/inference"
	"github.com/wyfcoding/probkit/naivebayes"
	"github.com/wyfcoding/probkit/numeric"
	"github.com/wyfcoding/probkit/variance"
)

// Digits 是表格中数值保留的小数位数。
const Digits int32 = 4

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// styles 绑定到具体输出的渲染器，非终端输出时自动去掉颜色。
type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
	err    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(colorPrimary),
		header: r.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		border: r.NewStyle().Foreground(colorMuted),
		err:    r.NewStyle().Foreground(colorError),
	}
}

func (s styles) table(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		}).
		Headers(headers...)
}

func write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}

func num(v float64) string {
	return numeric.Format(v, Digits)
}

// NaiveBayes 渲染每条查询的后验分布；detail 大于 0 时对前 detail 条查询额外输出各类别的计算明细。
func NaiveBayes(w io.Writer, results []naivebayes.Result, detail int) error {
	s := newStyles(w)
	t := s.table("#", "features", "best", "posterior")
	for _, r := range results {
		row := []string{strconv.Itoa(r.Query.Index + 1), features(r.Query)}
		if r.Err != nil {
			row = append(row, "-", s.err.Render(r.Err.Error()))
		} else {
			best, _ := r.Posterior.Best()
			row = append(row, best.Category, posterior(r.Posterior, r.Precision))
		}
		t.Row(row...)
	}
	if err := write(w, s.title.Render("Naive Bayes posterior"), t.Render()); err != nil {
		return err
	}

	for i := 0; i < detail && i < len(results); i++ {
		if err := naiveBayesDetail(w, s, results[i]); err != nil {
			return err
		}
	}
	return nil
}

func naiveBayesDetail(w io.Writer, s styles, r naivebayes.Result) error {
	t := s.table("category", "support", "prior", "conditionals", "joint", "posterior")
	for _, ev := range r.Evaluations {
		conds := make([]string, len(ev.Conditionals))
		for i, c := range ev.Conditionals {
			conds[i] = fmt.Sprintf("P(%s=%s)=%s", c.Column, c.Value, num(c.Probability))
		}
		post := "-"
		if e, ok := r.Posterior.Get(ev.Category); ok {
			post = numeric.Format(e.Rounded, r.Precision)
		}
		t.Row(ev.Category, strconv.FormatInt(ev.Support, 10), num(ev.Prior), strings.Join(conds, " "), num(ev.Joint), post)
	}
	for _, c := range r.Skipped {
		t.Row(c, "0", "-", "-", "-", "skipped")
	}
	return write(w, s.title.Render(fmt.Sprintf("Query %d: %s", r.Query.Index+1, features(r.Query))), t.Render())
}

func features(q naivebayes.Query) string {
	parts := make([]string, len(q.Features))
	for i, f := range q.Features {
		parts[i] = f.Column + "=" + f.Value
	}
	return strings.Join(parts, " ")
}

// posterior 按分类时使用的精度输出各类别的 Rounded。
func posterior(p naivebayes.Posterior, digits int32) string {
	parts := make([]string, len(p))
	for i, e := range p {
		parts[i] = e.Category + "=" + numeric.Format(e.Rounded, digits)
	}
	return strings.Join(parts, " ")
}

// Enumeration 渲染穷举结果的分组表以及事件概率与条件期望。
func Enumeration(w io.Writer, res *enumerate.Result) error {
	s := newStyles(w)
	t := s.table("total", "probability", "count")
	for _, g := range res.Groups {
		t.Row(strconv.Itoa(g.Total), numeric.Format(g.Probability, 8), strconv.Itoa(g.Count))
	}
	return write(w, t.Render(),
		fmt.Sprintf("event probability: %s", numeric.Format(res.Probability, 6)),
		fmt.Sprintf("conditional expectation: %s", numeric.Format(res.Expectation, 6)),
	)
}

// BayesTable 渲染贝叶斯表与边缘概率。
func BayesTable(w io.Writer, tbl *inference.BayesTable) error {
	s := newStyles(w)
	t := s.table("hypothesis", "prior", "likelihood", "joint", "posterior")
	for _, r := range tbl.Rows {
		t.Row(r.Label, num(r.Prior), num(r.Likelihood), num(r.Joint), num(r.Posterior))
	}
	return write(w, t.Render(), fmt.Sprintf("marginal probability: %s", num(tbl.Marginal)))
}

// PredictiveValues 渲染诊断试验的阳性与阴性预测值。
func PredictiveValues(w io.Writer, pv inference.PredictiveValues) error {
	s := newStyles(w)
	t := s.table("measure", "value")
	t.Row("PPV  P(D+|T+)", numeric.Format(pv.PPV, 5))
	t.Row("NPV  P(D-|T-)", numeric.Format(pv.NPV, 5))
	return write(w, t.Render())
}

// Decomposition 渲染条件方差公式的各项。
func Decomposition(w io.Writer, d variance.Decomposition) error {
	s := newStyles(w)
	t := s.table("term", "value")
	t.Row("E[X]", num(d.Mean))
	t.Row("E[X]^2", num(d.Mean*d.Mean))
	t.Row("E[X^2]", num(d.MeanSq))
	t.Row("within", num(d.Within))
	t.Row("between", num(d.Between))
	t.Row("variance", num(d.Total))
	return write(w, t.Render())
}

// ConvergencePath 渲染 Beta 后验均值逐步逼近真实概率的过程。
func ConvergencePath(w io.Writer, steps []conjugate.Step) error {
	s := newStyles(w)
	t := s.table("N", "k", "alpha", "beta", "mean", "variance")
	for _, st := range steps {
		t.Row(num(st.N), strconv.Itoa(st.K), num(st.Params.Alpha), num(st.Params.Beta), num(st.Mean), numeric.Format(st.Variance, 6))
	}
	return write(w, t.Render())
}

// Pair 是一个带名称的数值。
type Pair struct {
	Name  string
	Value float64
}

// Values 以两列表格渲染若干命名数值，保留 6 位小数。
func Values(w io.Writer, title string, pairs ...Pair) error {
	s := newStyles(w)
	t := s.table("quantity", "value")
	for _, p := range pairs {
		t.Row(p.Name, numeric.Format(p.Value, 6))
	}
	if title == "" {
		return write(w, t.Render())
	}
	return write(w, s.title.Render(title), t.Render())
}

// Distribution 渲染离散分布在 k 处的概率与分布的矩。
func Distribution(w io.Writer, name string, d distribution.Discrete, k int) error {
	return Values(w, name,
		Pair{Name: fmt.Sprintf("P(X = %d)", k), Value: d.PMF(k)},
		Pair{Name: fmt.Sprintf("P(X <= %d)", k), Value: d.CDF(k)},
		Pair{Name: "E[X]", Value: d.Mean()},
		Pair{Name: "Var[X]", Value: d.Variance()},
	)
}
