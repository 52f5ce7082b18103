package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"traitres/internal/resolve"
	"traitres/internal/types"
)

var selectCmd = &cobra.Command{
	Use:   "select [flags] <Type: Trait>",
	Short: "Find the implementation satisfying a trait reference",
	Long: `Select runs trait selection for a reference such as "Vec<i32>: Clone" and
prints ok with the chosen impl, err, or ambiguous. With --prove the nested
obligations of the impl are proved too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSelect,
}

var implsCmd = &cobra.Command{
	Use:   "impls <Type>",
	Short: "List every impl and trait that applies to a type",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImpls,
}

var projectCmd = &cobra.Command{
	Use:   "project <Type> <Trait> <Assoc>",
	Short: "Resolve <Type as Trait>::Assoc",
	Args:  cobra.ExactArgs(3),
	RunE:  runProject,
}

var iterItemCmd = &cobra.Command{
	Use:   "iter-item <Type>",
	Short: "Show the item type produced by iterating over a type",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIterItem,
}

var derefCmd = &cobra.Command{
	Use:   "deref [flags] <Type>",
	Short: "Show what *expr evaluates to, or the whole autoderef chain with --chain",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDeref,
}

var copyCmd = &cobra.Command{
	Use:   "copy <Type>",
	Short: "Report whether a type is Copy",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCopy,
}

var opCmd = &cobra.Command{
	Use:   "op <Lhs> <op> <Rhs>",
	Short: "Resolve a binary operator: its impl and, for arithmetic, its output type",
	Args:  cobra.ExactArgs(3),
	RunE:  runOp,
}

func init() {
	selectCmd.Flags().Bool("prove", false, "prove nested obligations of the selected impl")
	derefCmd.Flags().Bool("chain", false, "print the full coercion sequence")
}

// withSession opens a session, runs fn and closes it.
func withSession(cmd *cobra.Command, fn func(s *session) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}

func runSelect(cmd *cobra.Command, args []string) error {
	prove, err := cmd.Flags().GetBool("prove")
	if err != nil {
		return fmt.Errorf("failed to get prove flag: %w", err)
	}
	return withSession(cmd, func(s *session) error {
		ref, err := s.query.TraitRef(joinArgs(args))
		if err != nil {
			return err
		}
		return s.measure("select", func() error {
			l := s.lookup()
			res := l.Select(ref, 0)
			out := cmd.OutOrStdout()
			sel, ok := res.Ok()
			if !ok {
				printKind(out, res.Kind(), res.Err().Error())
				return nil
			}
			if !prove {
				printKind(out, res.Kind(), sel.Impl.String())
				printObligations(out, l.Context(), sel.Obligations)
				return nil
			}
			pending, err := l.EvaluateObligations(sel.Obligations)
			switch {
			case err != nil:
				printKind(out, resolve.ResultErr, err.Error())
			case len(pending) > 0:
				printKind(out, resolve.ResultAmbiguous, sel.Impl.String())
				printObligations(out, l.Context(), pending)
			default:
				printKind(out, resolve.ResultOk, sel.Impl.String())
			}
			return nil
		})
	})
}

func runImpls(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		ty, err := s.query.Type(joinArgs(args))
		if err != nil {
			return err
		}
		return s.measure("impls", func() error {
			tb := newTable(ty.String())
			for _, it := range s.lookup().FindImplsAndTraits(ty) {
				label := it.String()
				kind, detail := "trait", ""
				if impl, ok := it.Item.(*types.ImplItem); ok {
					kind, detail = "impl", impl.String()
					if impl.Trait == nil {
						kind = "inherent"
					}
				}
				tb.Add(label, kind, detail)
			}
			fmt.Fprint(cmd.OutOrStdout(), tb.View())
			return nil
		})
	})
}

func runProject(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		ty, err := s.query.Type(args[0])
		if err != nil {
			return err
		}
		bound, err := s.query.Bound(args[1])
		if err != nil {
			return err
		}
		alias := bound.Trait.FindAssociatedType(args[2])
		if alias == nil {
			return fmt.Errorf("trait %s has no associated type %s", bound.Trait.Name, args[2])
		}
		ref := types.TraitRef{SelfTy: ty, Trait: bound.WithDefaults(ty)}
		return s.measure("project", func() error {
			l := s.lookup()
			res := l.SelectProjection(ref, alias, 0)
			out := cmd.OutOrStdout()
			p, ok := res.Ok()
			switch {
			case !ok:
				printKind(out, res.Kind(), res.Err().Error())
			case p == nil:
				printKind(out, res.Kind(), "selected, but "+alias.Name+" is not defined")
			default:
				printKind(out, res.Kind(), p.Value.String())
				printObligations(out, l.Context(), p.Obligations)
			}
			return nil
		})
	})
}

func runIterItem(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		ty, err := s.query.Type(joinArgs(args))
		if err != nil {
			return err
		}
		return s.measure("iter-item", func() error {
			l := s.lookup()
			if p := l.FindIteratorItemType(ty); p != nil {
				printAnswer(cmd.OutOrStdout(), l.Context(), p.Value.String(), p.Obligations)
			} else {
				printAnswer(cmd.OutOrStdout(), l.Context(), "", nil)
			}
			return nil
		})
	})
}

func runDeref(cmd *cobra.Command, args []string) error {
	chain, err := cmd.Flags().GetBool("chain")
	if err != nil {
		return fmt.Errorf("failed to get chain flag: %w", err)
	}
	return withSession(cmd, func(s *session) error {
		ty, err := s.query.Type(joinArgs(args))
		if err != nil {
			return err
		}
		return s.measure("deref", func() error {
			l := s.lookup()
			out := cmd.OutOrStdout()
			if !chain {
				if target := l.Deref(ty); target != nil {
					printAnswer(out, l.Context(), target.String(), nil)
				} else {
					printAnswer(out, l.Context(), "", nil)
				}
				return nil
			}
			step := 0
			for t := range l.CoercionSequence(ty) {
				fmt.Fprintf(out, "%s %s\n", dimColor.Sprintf("%2d", step), t)
				step++
			}
			return nil
		})
	})
}

func runCopy(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		ty, err := s.query.Type(joinArgs(args))
		if err != nil {
			return err
		}
		return s.measure("copy", func() error {
			answer := errColor.Sprint("no")
			if s.lookup().IsCopy(ty) {
				answer = okColor.Sprint("yes")
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		})
	})
}

func runOp(cmd *cobra.Command, args []string) error {
	op, ok := resolve.ParseBinaryOperator(args[1])
	if !ok {
		return fmt.Errorf("unknown binary operator %q", args[1])
	}
	return withSession(cmd, func(s *session) error {
		lhs, err := s.query.Type(args[0])
		if err != nil {
			return err
		}
		rhs, err := s.query.Type(args[2])
		if err != nil {
			return err
		}
		return s.measure("op", func() error {
			l := s.lookup()
			out := cmd.OutOrStdout()
			impl := l.FindOverloadedOpImpl(lhs, rhs, op)
			if impl == nil {
				printKind(out, resolve.ResultErr, fmt.Sprintf("%s %s %s is not implemented", lhs, op.Sign(), rhs))
				return nil
			}
			printKind(out, resolve.ResultOk, impl.String())
			if arith, ok := op.(resolve.ArithmeticOp); ok {
				if p := l.FindArithmeticBinaryExprOutputType(lhs, rhs, arith); p != nil {
					fmt.Fprintf(out, "  %s %s\n", dimColor.Sprint("output"), p.Value)
				}
			}
			return nil
		})
	})
}
