package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/conf"
	"github.com/mimiro-io/heroes-datalayer/internal/encoder"
	"github.com/mimiro-io/heroes-datalayer/internal/gateway"
	"github.com/mimiro-io/heroes-datalayer/internal/hero"
	"github.com/mimiro-io/heroes-datalayer/internal/messages"
)

const usage = `usage: heroes <command> [args]

commands:
  list                 all heroes
  dashboard            the top heroes
  get <id>             one hero
  add <name>           create a hero
  update <id> <name>   rename a hero
  delete <id>          remove a hero
  search <term>        heroes whose name contains term

environment:
  HEROES_BASE_URL  heroes api (default http://localhost:8080/api/heroes)
  OUTPUT_FORMAT    json, ndjson, csv or tsv (default json)
`

// heroGateway is what the commands need from *gateway.HeroGateway.
type heroGateway interface {
	GetHeroes() []hero.Hero
	GetHero(id int) *hero.Hero
	AddHero(h hero.Hero) *hero.Hero
	UpdateHero(h hero.Hero) *gateway.Ack
	DeleteHeroByID(id int) *hero.Hero
	SearchHeroes(term string) []hero.Hero
}

type cli struct {
	gateway  heroGateway
	messages *messages.Service
	format   string
	logger   *zap.SugaredLogger
	out      io.Writer
	errOut   io.Writer
}

func main() {
	viper.SetDefault("LOG_LEVEL", "WARN")
	env := conf.NewEnv()
	defer func() {
		_ = env.Logger.Sync()
	}()

	statsd, err := conf.NewStatsd(env)
	if err != nil {
		env.Logger.Fatalw("Could not create statsd client", "error", err)
	}
	msgs := messages.NewService(env.Logger)
	c := &cli{
		gateway:  gateway.NewHeroGateway(env, gateway.NewTransport(env, statsd), msgs, statsd),
		messages: msgs,
		format:   env.OutputFormat,
		logger:   env.Logger,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	os.Exit(c.run(os.Args[1:]))
}

// run executes one command. Gateway failures are reported through the messages only, so the exit
// code is non zero for usage errors alone.
func (c *cli) run(args []string) int {
	if len(args) == 0 {
		return c.usage("missing command")
	}

	enc, err := encoder.NewHeroEncoder(c.format, c.out, c.logger)
	if err != nil {
		return c.usage(err.Error())
	}

	var heroes []hero.Hero
	switch command := args[0]; command {
	case "list":
		heroes = c.gateway.GetHeroes()
	case "dashboard":
		heroes = topHeroes(c.gateway.GetHeroes())
	case "get":
		id, ok := c.id(args, 2)
		if !ok {
			return c.usage("get needs a numeric id")
		}
		heroes = optional(c.gateway.GetHero(id))
	case "add":
		name := strings.TrimSpace(strings.Join(args[1:], " "))
		if name == "" {
			return c.usage("add needs a name")
		}
		heroes = optional(c.gateway.AddHero(hero.Hero{Name: name}))
	case "update":
		id, ok := c.id(args, 3)
		if !ok {
			return c.usage("update needs a numeric id and a name")
		}
		h := hero.Hero{ID: id, Name: strings.Join(args[2:], " ")}
		if c.gateway.UpdateHero(h) != nil {
			heroes = []hero.Hero{h}
		}
	case "delete":
		id, ok := c.id(args, 2)
		if !ok {
			return c.usage("delete needs a numeric id")
		}
		heroes = optional(c.gateway.DeleteHeroByID(id))
	case "search":
		heroes = c.gateway.SearchHeroes(strings.Join(args[1:], " "))
	default:
		return c.usage(fmt.Sprintf("unknown command '%s'", command))
	}

	if heroes != nil {
		if _, err := enc.Write(heroes); err != nil {
			c.logger.Errorw("Could not write output", "error", err)
		}
		if err := enc.Close(); err != nil {
			c.logger.Errorw("Could not write output", "error", err)
		}
	}
	c.printMessages()
	return 0
}

func (c *cli) id(args []string, minArgs int) (int, bool) {
	if len(args) < minArgs {
		return 0, false
	}
	id, err := cast.ToIntE(args[1])
	if err != nil || id <= 0 || strconv.Itoa(id) != args[1] {
		return 0, false
	}
	return id, true
}

func (c *cli) printMessages() {
	for _, m := range c.messages.Messages() {
		_, _ = fmt.Fprintln(c.errOut, m)
	}
	c.messages.Clear()
}

func (c *cli) usage(problem string) int {
	_, _ = fmt.Fprintf(c.errOut, "%s\n\n%s", problem, usage)
	return 2
}

// topHeroes picks the dashboard heroes: the second to fifth hero in the list.
func topHeroes(heroes []hero.Hero) []hero.Hero {
	if len(heroes) <= 1 {
		return make([]hero.Hero, 0)
	}
	end := 5
	if len(heroes) < end {
		end = len(heroes)
	}
	return heroes[1:end]
}

// optional turns an absent result into no output at all.
func optional(h *hero.Hero) []hero.Hero {
	if h == nil {
		return nil
	}
	return []hero.Hero{*h}
}
