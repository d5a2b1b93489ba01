package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dactires/boardbombers/engine"
	"github.com/Dactires/boardbombers/internal/ai"
	"github.com/Dactires/boardbombers/internal/flavor"
	"github.com/Dactires/boardbombers/internal/game"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#D7263D")).
			Padding(0, 1)

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	faceDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))
	bombStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F00"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	flavorStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#04B575"))

	cardStyles = map[string]lipgloss.Style{
		"red":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E84855")),
		"blue":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3185FC")),
		"green":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		"yellow": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9DC5C")),
	}
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a local match against the computer",
	Long: `Starts a local match on the terminal. You are player one; the computer
plays a greedy policy. Commands during your turn:

  draw               draw a card from the deck
  reveal R C         flip your face-down card at row R, column C
  play N R C         place hand card N face up on your own cell (R,C)
  rival N R C        plant hand card N face down on the rival cell (R,C)
  swap N R C         exchange hand card N with your face-up character at (R,C)
  pass               end your turn without playing
  quit               abandon the match`,
}

func init() {
	playCmd.RunE = runPlay
	playCmd.Flags().Uint64("seed", 0, "deck shuffle seed (0 picks one from the clock)")
	playCmd.Flags().String("name", "you", "your display name")
	playCmd.Flags().Bool("ai-vs-ai", false, "watch two policies play each other")
	_ = viper.BindPFlag("seed", playCmd.Flags().Lookup("seed"))
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, _ []string) error {
	seed := viper.GetUint64("seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	name, _ := cmd.Flags().GetString("name")
	aiOnly, _ := cmd.Flags().GetBool("ai-vs-ai")
	if aiOnly {
		name = "bot-1"
	}

	players := []game.PlayerInfo{
		{ID: uuid.New(), Name: name},
		{ID: uuid.New(), Name: "cpu"},
	}
	m, err := game.NewMatch(players, engine.DefaultRules(), seed)
	if err != nil {
		return err
	}

	humanID := players[0].ID
	explainer := flavor.Local{}
	m.BroadcastFn = func(ev game.Event) {
		printEvent(m, ev, explainer)
	}
	m.BroadcastToPlayerFn = func(id uuid.UUID, ev game.Event) {
		if id == humanID && ev.Type == game.EventActionRejected {
			fmt.Println(infoStyle.Render("✗ " + ev.Message))
		}
	}

	policies := map[uint8]ai.Policy{1: ai.NewGreedy(seed ^ 0xbadc0ffee)}
	if aiOnly {
		policies[0] = ai.NewGreedy(seed)
	}

	fmt.Println(titleStyle.Render("BOARD BOMBERS"))
	fmt.Println(infoStyle.Render(fmt.Sprintf("seed %d (type 'help' for commands)", seed)))

	scanner := bufio.NewScanner(os.Stdin)
	for !m.Engine.IsTerminal() {
		cur := m.Engine.CurrentPlayer
		if policy, isAI := policies[cur]; isAI {
			a, ok := policy.Choose(&m.Engine)
			if !ok {
				break
			}
			_ = m.ProcessAction(m.PlayerID(a.Player), m.ToClientAction(a))
			continue
		}

		st := m.StateFor(humanID)
		fmt.Println(renderState(st))
		fmt.Printf("[%s] > ", m.Engine.Phase)
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			fmt.Println("match abandoned")
			return nil
		case "help":
			fmt.Println(playCmd.Long)
			continue
		}

		ca, perr := parseCommand(line, st, players[1].ID)
		if perr != nil {
			fmt.Println(infoStyle.Render("✗ " + perr.Error()))
			continue
		}
		_ = m.ProcessAction(humanID, ca) // rejections are reported through the event callback
	}

	fmt.Println(renderState(m.StateFor(humanID)))
	return nil
}

// parseCommand turns one input line into a client action. Hand cards are
// addressed by their position in the rendered hand.
func parseCommand(line string, st game.ObfState, rivalID uuid.UUID) (game.ClientAction, error) {
	fields := strings.Fields(line)
	ca := game.ClientAction{Type: fields[0]}

	switch fields[0] {
	case "draw", "pass":
		return ca, nil

	case "reveal":
		if len(fields) != 3 {
			return ca, fmt.Errorf("usage: reveal R C")
		}
		return withCoords(ca, fields[1], fields[2])

	case "play", "rival", "swap":
		if len(fields) != 4 {
			return ca, fmt.Errorf("usage: %s N R C", fields[0])
		}
		hand := st.Players[0].Hand
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 || n >= len(hand) {
			return ca, fmt.Errorf("no hand card %q (hand has %d cards)", fields[1], len(hand))
		}
		ca.CardID = hand[n].ID
		switch fields[0] {
		case "play":
			ca.Type = "play_own"
		case "swap":
			ca.Type = "swap"
		default:
			ca.Type = "play_rival"
			ca.Target = rivalID
		}
		return withCoords(ca, fields[2], fields[3])

	default:
		return ca, fmt.Errorf("unknown command %q", fields[0])
	}
}

func withCoords(ca game.ClientAction, rowS, colS string) (game.ClientAction, error) {
	row, err1 := strconv.Atoi(rowS)
	col, err2 := strconv.Atoi(colS)
	if err1 != nil || err2 != nil {
		return ca, fmt.Errorf("coordinates must be numbers in [0,%d]", engine.BoardSize-1)
	}
	ca.Row, ca.Col = row, col
	return ca, nil
}

// printEvent narrates one public match event, with flavor text for the moves
// that change a board.
func printEvent(m *game.Match, ev game.Event, explainer flavor.Explainer) {
	actor := func() string {
		if ev.User == nil {
			return "someone"
		}
		for _, p := range m.Players {
			if p.ID == ev.User.ID {
				return p.Name
			}
		}
		return "someone"
	}

	switch ev.Type {
	case game.EventPlayerDraw:
		fmt.Println(infoStyle.Render(actor() + " draws a card"))
	case game.EventDeckEmptyDraw:
		fmt.Println(infoStyle.Render(actor() + " reaches for the deck, but it is empty"))
	case game.EventPlayerReveal:
		fmt.Printf("%s reveals %s at (%d,%d)\n", actor(), cardLabel(ev.Card), ev.Cell.Row, ev.Cell.Col)
	case game.EventBoardExplosion:
		fmt.Printf("%s %s reveals a BOMB! %d cells go up\n", bombStyle.Render("✹"), actor(), len(ev.Cells))
	case game.EventPlayerPlaceOwn:
		fmt.Printf("%s plays %s at (%d,%d)\n", actor(), cardLabel(ev.Card), ev.Cell.Row, ev.Cell.Col)
	case game.EventPlayerPlaceRival:
		fmt.Printf("%s slides a face-down card onto the rival board at (%d,%d)\n", actor(), ev.Cell.Row, ev.Cell.Col)
	case game.EventPlayerSwap:
		fmt.Printf("%s swaps in %s at (%d,%d)\n", actor(), cardLabel(ev.Card), ev.Cell.Row, ev.Cell.Col)
	case game.EventPlayerPass:
		fmt.Println(infoStyle.Render(actor() + " passes"))
	case game.EventFinalRound, game.EventGameEnd:
		fmt.Println(titleStyle.Render(ev.Message))
	default:
		return
	}

	// Flavor narration for score-moving events. Advisory only; a failing
	// explainer falls back to a placeholder inside Describe.
	switch ev.Type {
	case game.EventPlayerReveal, game.EventBoardExplosion, game.EventPlayerPlaceOwn, game.EventPlayerSwap:
		la := m.Engine.LastAction
		ex := flavor.Describe(context.Background(), explainer, &m.Engine, la.ActingPlayer)
		fmt.Println(flavorStyle.Render("  " + ex.Explanation))
	}
}

func cardLabel(c *game.EventCard) string {
	if c == nil || !c.Known {
		return faceDownStyle.Render("a hidden card")
	}
	if c.Bomb {
		return bombStyle.Render("a bomb")
	}
	style, ok := cardStyles[c.Color]
	if !ok {
		style = infoStyle
	}
	return style.Render(fmt.Sprintf("%s %d", c.Color, c.Value))
}

// renderState draws both boards side by side with scores and the observer's
// hand.
func renderState(st game.ObfState) string {
	var boards []string
	for _, p := range st.Players {
		var rows []string
		for r := 0; r < engine.BoardSize; r++ {
			var cells []string
			for c := 0; c < engine.BoardSize; c++ {
				cells = append(cells, renderCell(p.Board[r][c]))
			}
			rows = append(rows, strings.Join(cells, " "))
		}

		turn := " "
		if p.IsCurrentTurn {
			turn = "▶"
		}
		header := fmt.Sprintf("%s %s: %d pts, %d in hand", turn, p.Name, p.Score, p.HandSize)
		boards = append(boards, boardStyle.Render(header+"\n\n"+strings.Join(rows, "\n")))
	}

	out := lipgloss.JoinHorizontal(lipgloss.Top, boards...)

	if hand := st.Players[0].Hand; len(hand) > 0 {
		var cards []string
		for i, c := range hand {
			label := "bomb"
			if !c.Bomb {
				label = fmt.Sprintf("%s %d", c.Color, c.Value)
			}
			style, ok := cardStyles[c.Color]
			if !ok {
				style = bombStyle
			}
			cards = append(cards, fmt.Sprintf("%d:%s", i, style.Render(label)))
		}
		out += "\n hand: " + strings.Join(cards, "  ")
	}

	status := fmt.Sprintf(" deck: %d  discard: %d", st.DeckSize, st.DiscardSize)
	if st.FinalTurns >= 0 && !st.GameOver {
		status += fmt.Sprintf("; final round, %d turns left", st.FinalTurns)
	}
	if st.ForcedPlay {
		status += "; hand full: play or swap!"
	}
	if st.GameOver {
		if st.Tie {
			status = " game over: a tie"
		} else {
			for _, p := range st.Players {
				if p.PlayerID == st.WinnerID {
					status = fmt.Sprintf(" game over: %s wins", p.Name)
				}
			}
		}
	}
	return out + "\n" + infoStyle.Render(status)
}

func renderCell(cell game.ObfCell) string {
	switch {
	case cell.Card == nil:
		return emptyStyle.Render(" · ")
	case !cell.FaceUp:
		return faceDownStyle.Render("[■]")
	case cell.Card.Bomb:
		return bombStyle.Render("[✹]")
	default:
		style, ok := cardStyles[cell.Card.Color]
		if !ok {
			style = infoStyle
		}
		return style.Render(fmt.Sprintf("[%d]", cell.Card.Value))
	}
}
